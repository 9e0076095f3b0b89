// Package codec selects a marshaling format for a configuration file based on
// its extension, so callers can load either a JSON or a YAML config through
// the same Decoder/Encoder pair.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

type Decoder interface {
	Decode(data []byte, v any) error
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Codec interface {
	Decoder
	Encoder
}

type jsonCodec struct{}

func (jsonCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

type yamlCodec struct{}

func (yamlCodec) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func (yamlCodec) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Infer selects a Codec based on the file extension of path. It recognizes
// ".json" (also used when the extension is missing) as well as ".yaml" and
// ".yml"; any other extension is reported as an error.
func Infer(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".json":
		return jsonCodec{}, nil
	case ".yaml", ".yml":
		return yamlCodec{}, nil
	default:
		return nil, fmt.Errorf("codec: unsupported file extension %q", filepath.Ext(path))
	}
}
