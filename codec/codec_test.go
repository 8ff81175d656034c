package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		c, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
	assert.Equal(t, []string{"go-json", "json"}, Names())

	_, err := Lookup("msgpack")
	assert.ErrorIs(t, err, ErrUnknownCodec)
	assert.Contains(t, err.Error(), `"msgpack"`)
}

func TestCodecsInterchangeable(t *testing.T) {
	values := []int{3, 1, 4, 1, 5, 9, 2, 6}

	for _, enc := range []Codec{JSON{}, GoJSON{}} {
		data, err := enc.Marshal(values)
		require.NoError(t, err)
		assert.JSONEq(t, `[3,1,4,1,5,9,2,6]`, string(data))

		for _, dec := range []Codec{JSON{}, GoJSON{}} {
			var got []int
			require.NoError(t, dec.Unmarshal(data, &got), "%s -> %s", enc.Name(), dec.Name())
			assert.Equal(t, values, got)
		}
	}
}

func TestCodecRejectsNaN(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		_, err := c.Marshal([]float64{1, math.NaN()})
		assert.Error(t, err, c.Name())
	}
}
