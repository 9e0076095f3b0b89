// Package config loads nulid's optional config file, whose format (JSON or
// YAML) is inferred from its extension by codec.Infer. It sits below env
// and flag in cmd/nulid's precedence chain: loadConfig calls Load first,
// so file values can still be overridden by the environment and then by
// explicit flags.
package config

import (
	"os"

	"github.com/deep-rent/nulid/codec"
)

// Load decodes the config file at path into v, using the codec inferred
// from its extension.
func Load(path string, v any) error {
	codec, err := codec.Infer(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return codec.Decode(data, v)
}
