// Package conv provides checked integer conversions for sizes read from
// snapshot headers and computed from element counts.
package conv
