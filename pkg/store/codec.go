package store

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Codec defines how the note collection is turned into bytes and back.
type Codec interface {
	// Name is the short format name used in configuration ("json", "yaml", "cbor").
	Name() string
	// Ext is the file extension used by file-backed stores, with the dot.
	Ext() string
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// DefaultCodecs returns the standard set of codecs keyed by name.
func DefaultCodecs() map[string]Codec {
	return map[string]Codec{
		"json": JSONCodec{},
		"yaml": YAMLCodec{},
		"yml":  YAMLCodec{},
		"cbor": NewCBORCodec(),
	}
}

// CodecByName resolves a codec from DefaultCodecs. Empty means JSON.
func CodecByName(name string) (Codec, error) {
	if name == "" {
		return JSONCodec{}, nil
	}
	c, ok := DefaultCodecs()[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", name)
	}
	return c, nil
}

// --- JSON Codec ---

// JSONCodec writes compact JSON with the same field names the browser
// application used, so existing blobs load unchanged.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }
func (JSONCodec) Ext() string  { return ".json" }

func (JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// --- YAML Codec ---

type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }
func (YAMLCodec) Ext() string  { return ".yaml" }

func (YAMLCodec) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (YAMLCodec) Decode(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	return nil
}

// --- CBOR Codec ---

// CBORCodec stores the collection as CBOR. Field names follow the json tags
// and timestamps are encoded as RFC 3339 strings to keep sub-second precision.
type CBORCodec struct {
	enc cbor.EncMode
}

// NewCBORCodec creates a CBOR codec.
func NewCBORCodec() CBORCodec {
	enc, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		// options are static; failure here is a programming error
		panic(err)
	}
	return CBORCodec{enc: enc}
}

func (CBORCodec) Name() string { return "cbor" }
func (CBORCodec) Ext() string  { return ".cbor" }

func (c CBORCodec) Encode(v any) ([]byte, error) {
	if c.enc == nil {
		c = NewCBORCodec()
	}
	return c.enc.Marshal(v)
}

func (CBORCodec) Decode(data []byte, v any) error {
	if err := cbor.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid cbor: %w", err)
	}
	return nil
}
