// Package codec centralizes element encoding for vector import and export.
//
// Vector.Encode and Vector.Decode take a Codec; MarshalJSON and UnmarshalJSON
// use Default. Both built-in codecs write the same JSON, so data encoded by
// one decodes with the other. NaN and infinite floats are rejected by both.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	gojson "github.com/goccy/go-json"
)

// ErrUnknownCodec is returned by Lookup for unregistered names.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec encodes and decodes element sequences.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used by Vector.MarshalJSON and BitVector.MarshalJSON.
var Default Codec = GoJSON{}

var builtin = map[string]Codec{
	JSON{}.Name():   JSON{},
	GoJSON{}.Name(): GoJSON{},
}

// Lookup returns a built-in codec by its stable name, so data stored next to
// a codec name can be decoded with the matching codec.
func Lookup(name string) (Codec, error) {
	if c, ok := builtin[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownCodec, name)
}

// Names lists the built-in codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// JSON is the encoding/json codec.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSON) Name() string                       { return "json" }

// GoJSON is backed by github.com/goccy/go-json.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error)      { return gojson.Marshal(v) }
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }
func (GoJSON) Name() string                       { return "go-json" }
