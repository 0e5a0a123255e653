// Package serialization provides the codec used to persist workflow state
// blobs in the repository adapters.
package serialization

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes and decodes values for storage.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	Name() string
}

// JSONCodec serializes values as JSON. Useful for debugging stored rows.
type JSONCodec struct{}

func (JSONCodec) Encode(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Decode(data []byte, v any) error   { return json.Unmarshal(data, v) }
func (JSONCodec) Name() string                      { return "json" }

// MsgPackCodec serializes values as MessagePack.
type MsgPackCodec struct{}

func (MsgPackCodec) Encode(v any) ([]byte, error)    { return msgpack.Marshal(v) }
func (MsgPackCodec) Decode(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
func (MsgPackCodec) Name() string                    { return "msgpack" }

// Serializer pairs a codec with optional zstd compression.
type Serializer struct {
	codec    Codec
	compress bool
}

// New creates a serializer with the given codec.
func New(codec Codec, compress bool) *Serializer {
	return &Serializer{codec: codec, compress: compress}
}

// Default returns the serializer used by the repository adapters:
// MessagePack with zstd compression.
func Default() *Serializer {
	return New(MsgPackCodec{}, true)
}

// Marshal encodes and optionally compresses a value.
func (s *Serializer) Marshal(v any) ([]byte, error) {
	data, err := s.codec.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("%s encoding failed: %w", s.codec.Name(), err)
	}
	if !s.compress {
		return data, nil
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// Unmarshal decompresses (if enabled) and decodes a value.
func (s *Serializer) Unmarshal(data []byte, v any) error {
	if s.compress {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return fmt.Errorf("zstd decompression failed: %w", err)
		}
	}
	if err := s.codec.Decode(data, v); err != nil {
		return fmt.Errorf("%s decoding failed: %w", s.codec.Name(), err)
	}
	return nil
}
