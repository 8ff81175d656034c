package dynvec

import (
	"encoding/json"
	"testing"

	"github.com/hupe1980/dynvec/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_JSON(t *testing.T) {
	v := Of(1, 2, 3)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3]`, string(data))

	var empty Vector[int]
	data, err = json.Marshal(&empty)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	var got Vector[int]
	require.NoError(t, json.Unmarshal([]byte(`[4,5]`), &got))
	assert.Equal(t, []int{4, 5}, got.Data())
}

func TestVector_EncodeDecode(t *testing.T) {
	type doc struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	v := Of(doc{1, "a"}, doc{2, "b"})

	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}, nil} {
		data, err := v.Encode(c)
		require.NoError(t, err)

		var got Vector[doc]
		require.NoError(t, got.Decode(c, data))
		assert.True(t, Equal(v, &got))
	}
}

func TestVector_DecodeFailureKeepsContents(t *testing.T) {
	v := Of(1, 2)
	require.Error(t, v.Decode(codec.JSON{}, []byte(`{"not":"an array"}`)))
	assert.Equal(t, []int{1, 2}, v.Data())
}

func TestBitVector_JSON(t *testing.T) {
	b := BitsOf(true, false, true)

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `[true,false,true]`, string(data))

	var got BitVector
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, BitsEqual(b, &got))
}

func TestVector_NestedJSON(t *testing.T) {
	type row struct {
		Bits *BitVector   `json:"bits"`
		Vals *Vector[int] `json:"vals"`
	}

	var r row
	require.NoError(t, json.Unmarshal([]byte(`{"bits":[false,true],"vals":[7]}`), &r))
	assert.Equal(t, 1, r.Bits.Count())
	assert.Equal(t, 7, r.Vals.Front())
}
