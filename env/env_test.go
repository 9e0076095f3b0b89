// Copyright (c) 2025-present deep.rent GmbH (https://deep.rent)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package env_test

import (
	"testing"
	"time"

	"github.com/deep-rent/nulid/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nodeConfig mirrors the shape of cmd/nulid's own Config struct: scalar
// strings, an int, and duration fields bound to a fixed unit.
type nodeConfig struct {
	Node     string        `env:"NODE"`
	Count    int           `env:"COUNT"`
	Interval time.Duration `env:"INTERVAL,unit:s"`
	Bound    time.Duration `env:"BOUND,unit:ms"`
}

type TString struct {
	V string
}

type TBool struct {
	V bool
}

type TUint8 struct {
	V uint8
}

type TFloat64 struct {
	V float64
}

type TDefaultKept struct {
	V string
}

type TRequired struct {
	V string `env:",required"`
}

type TIgnored struct {
	V string `env:"-"`
}

type TUnexported struct {
	v string
}

type TCustomName struct {
	Foo string `env:"BAR"`
}

type TSnakeCase struct {
	FooBar string
}

type TDuration struct {
	V time.Duration
}

type TDurationUnitNs struct {
	V time.Duration `env:",unit:ns"`
}

type TDurationUnitInvalid struct {
	V time.Duration `env:",unit:invalid"`
}

type TUnknownTag struct {
	V string `env:",foo:bar"`
}

func TestUnmarshal(t *testing.T) {
	type test struct {
		name    string
		vars    map[string]string
		opts    []env.Option
		in      any
		want    any
		wantErr bool
	}

	tests := []test{
		{
			name: "string",
			vars: map[string]string{"V": "foo"},
			in:   &TString{},
			want: &TString{"foo"},
		},
		{
			name: "bool",
			vars: map[string]string{"V": "true"},
			in:   &TBool{},
			want: &TBool{true},
		},
		{
			name: "uint8",
			vars: map[string]string{"V": "42"},
			in:   &TUint8{},
			want: &TUint8{42},
		},
		{
			name: "float64",
			vars: map[string]string{"V": "3.14"},
			in:   &TFloat64{},
			want: &TFloat64{3.14},
		},
		{
			name: "unset keeps existing value",
			vars: map[string]string{},
			in:   &TDefaultKept{"preset"},
			want: &TDefaultKept{"preset"},
		},
		{
			name: "required",
			vars: map[string]string{"V": "foo"},
			in:   &TRequired{},
			want: &TRequired{"foo"},
		},
		{
			name:    "required error",
			vars:    map[string]string{},
			in:      &TRequired{},
			wantErr: true,
		},
		{
			name: "ignored",
			vars: map[string]string{"V": "foo"},
			in:   &TIgnored{},
			want: &TIgnored{},
		},
		{
			name: "unexported",
			vars: map[string]string{"v": "foo"},
			in:   &TUnexported{},
			want: &TUnexported{},
		},
		{
			name: "custom name",
			vars: map[string]string{"BAR": "foo"},
			in:   &TCustomName{},
			want: &TCustomName{"foo"},
		},
		{
			name: "snake case",
			vars: map[string]string{"FOO_BAR": "baz"},
			in:   &TSnakeCase{},
			want: &TSnakeCase{"baz"},
		},
		{
			name: "global prefix",
			vars: map[string]string{"APP_V": "foo"},
			opts: []env.Option{env.WithPrefix("APP_")},
			in:   &TString{},
			want: &TString{"foo"},
		},
		{
			name: "duration string syntax",
			vars: map[string]string{"V": "1m"},
			in:   &TDuration{},
			want: &TDuration{time.Minute},
		},
		{
			name: "duration with unit ns",
			vars: map[string]string{"V": "5"},
			in:   &TDurationUnitNs{},
			want: &TDurationUnitNs{5 * time.Nanosecond},
		},
		{
			name:    "duration with invalid unit",
			vars:    map[string]string{"V": "5"},
			in:      &TDurationUnitInvalid{},
			wantErr: true,
		},
		{
			name:    "parse error bool",
			vars:    map[string]string{"V": "foo"},
			in:      &TBool{},
			wantErr: true,
		},
		{
			name:    "parse error duration",
			vars:    map[string]string{"V": "foo"},
			in:      &TDuration{},
			wantErr: true,
		},
		{
			name:    "unknown tag option",
			vars:    map[string]string{},
			in:      &TUnknownTag{},
			wantErr: true,
		},
		{
			name: "full node config, prefixed",
			vars: map[string]string{
				"NULID_NODE":     "7",
				"NULID_COUNT":    "3",
				"NULID_INTERVAL": "5",
				"NULID_BOUND":    "250",
			},
			opts: []env.Option{env.WithPrefix("NULID_")},
			in:   &nodeConfig{},
			want: &nodeConfig{
				Node:     "7",
				Count:    3,
				Interval: 5 * time.Second,
				Bound:    250 * time.Millisecond,
			},
		},
		{
			name: "node config leaves unset fields untouched",
			vars: map[string]string{"NULID_NODE": "7"},
			opts: []env.Option{env.WithPrefix("NULID_")},
			in:   &nodeConfig{Count: 1, Interval: time.Second},
			want: &nodeConfig{Node: "7", Count: 1, Interval: time.Second},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := append(tc.opts, env.WithLookup(func(k string) (string, bool) {
				v, ok := tc.vars[k]
				return v, ok
			}))
			err := env.Unmarshal(tc.in, opts...)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.want, tc.in)
			}
		})
	}
}

func TestUnmarshalErrors(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		err := env.Unmarshal(nil)
		require.Error(t, err)
	})

	t.Run("not a pointer", func(t *testing.T) {
		var s struct{}
		err := env.Unmarshal(s)
		require.Error(t, err)
	})

	t.Run("not a pointer to a struct", func(t *testing.T) {
		var i int
		err := env.Unmarshal(&i)
		require.Error(t, err)
	})
}

func BenchmarkUnmarshal(b *testing.B) {
	mockEnv := map[string]string{
		"NULID_NODE":     "7",
		"NULID_COUNT":    "3",
		"NULID_INTERVAL": "5",
		"NULID_BOUND":    "250",
	}

	opts := []env.Option{
		env.WithPrefix("NULID_"),
		env.WithLookup(func(k string) (string, bool) {
			v, ok := mockEnv[k]
			return v, ok
		}),
	}

	for b.Loop() {
		var cfg nodeConfig
		if err := env.Unmarshal(&cfg, opts...); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
