package dynvec

import (
	"github.com/hupe1980/dynvec/codec"
)

// Encode serializes the elements of v as an array using c. A nil codec
// selects codec.Default.
func (v *Vector[T]) Encode(c codec.Codec) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	data := v.Data()
	if data == nil {
		data = []T{}
	}
	return c.Marshal(data)
}

// Decode replaces the contents of v with the array in data decoded by c.
// On failure v is unchanged.
func (v *Vector[T]) Decode(c codec.Codec, data []byte) error {
	if c == nil {
		c = codec.Default
	}
	var values []T
	if err := c.Unmarshal(data, &values); err != nil {
		return err
	}
	return v.AssignSlice(values)
}

// MarshalJSON implements json.Marshaler using codec.Default.
func (v *Vector[T]) MarshalJSON() ([]byte, error) {
	return v.Encode(codec.Default)
}

// UnmarshalJSON implements json.Unmarshaler using codec.Default.
func (v *Vector[T]) UnmarshalJSON(data []byte) error {
	return v.Decode(codec.Default, data)
}

// MarshalJSON encodes b as an array of booleans.
func (b *BitVector) MarshalJSON() ([]byte, error) {
	values := make([]bool, 0, b.size)
	for x := range b.Values() {
		values = append(values, x)
	}
	return codec.Default.Marshal(values)
}

// UnmarshalJSON decodes an array of booleans into b.
func (b *BitVector) UnmarshalJSON(data []byte) error {
	var values []bool
	if err := codec.Default.Unmarshal(data, &values); err != nil {
		return err
	}
	return b.AssignSlice(values)
}
