// Package json provides a high-performance JSON serialization wrapper.
// It automatically uses sonic for supported architectures (amd64/arm64) and
// falls back to standard encoding/json for other platforms.
package json

import (
	stdjson "encoding/json"
	"io"
	"runtime"

	"github.com/bytedance/sonic"
)

var (
	// Marshal encodes v into JSON bytes.
	Marshal func(v interface{}) ([]byte, error)

	// MarshalIndent encodes v into indented JSON bytes.
	MarshalIndent func(v interface{}, prefix, indent string) ([]byte, error)

	// Unmarshal decodes JSON bytes into v.
	Unmarshal func(data []byte, v interface{}) error

	// NewEncoder creates a new JSON encoder for the writer.
	NewEncoder func(w io.Writer) Encoder

	// NewDecoder creates a new JSON decoder for the reader.
	NewDecoder func(r io.Reader) Decoder

	usingSonic bool
)

// Encoder is a JSON encoder interface.
type Encoder interface {
	Encode(v interface{}) error
}

// Decoder is a JSON decoder interface.
type Decoder interface {
	Decode(v interface{}) error
}

func init() {
	// Sonic only supports amd64 and arm64 architectures.
	if runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64" {
		Marshal = sonic.Marshal
		MarshalIndent = sonic.MarshalIndent
		Unmarshal = sonic.Unmarshal
		NewEncoder = func(w io.Writer) Encoder {
			return sonic.ConfigDefault.NewEncoder(w)
		}
		NewDecoder = func(r io.Reader) Decoder {
			return sonic.ConfigDefault.NewDecoder(r)
		}
		usingSonic = true
	} else {
		Marshal = stdjson.Marshal
		MarshalIndent = stdjson.MarshalIndent
		Unmarshal = stdjson.Unmarshal
		NewEncoder = func(w io.Writer) Encoder {
			return stdjson.NewEncoder(w)
		}
		NewDecoder = func(r io.Reader) Decoder {
			return stdjson.NewDecoder(r)
		}
		usingSonic = false
	}
}

// IsUsingSonic returns true if sonic is being used for JSON operations.
func IsUsingSonic() bool {
	return usingSonic
}
