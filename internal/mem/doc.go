// Package mem provides aligned heap allocation.
//
// # Aligned Allocation
//
// Buffers start on a caller-chosen power-of-two boundary (default 64 bytes,
// one cache line). Typed views are only valid for pointer-free element
// types: the garbage collector does not see pointers stored in a buffer
// that was allocated as bytes.
package mem
