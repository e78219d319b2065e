// Package config reads analysis settings from a small INI-style file. A
// Settings value is parsed once through viper and never mutated afterwards;
// callers pass the values they need into constructors explicitly.
package config

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/neurogo/mvpa/pkg/errors"
)

// Defaults used when a key is absent.
const (
	DefaultSeed = uint64(1)
)

// Settings is an immutable view of a parsed configuration file. Keys are
// addressed as "section.key"; keys outside any section land in the INI
// default section.
type Settings struct {
	v *viper.Viper
}

// Load parses the INI file at path.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "config.Load")
	}
	return &Settings{v: v}, nil
}

// Parse reads INI-style content: [section] headers, key = value lines, and
// #/; comments. Section and key names are case-insensitive; later duplicates
// win.
func Parse(r io.Reader) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("ini")
	if err := v.ReadConfig(r); err != nil {
		return nil, errors.Wrap(err, "config.Parse")
	}
	return &Settings{v: v}, nil
}

// Empty returns settings with every key at its default.
func Empty() *Settings {
	return &Settings{v: viper.New()}
}

// Get returns the raw string for "section.key" and whether it was present.
func (s *Settings) Get(key string) (string, bool) {
	key = strings.ToLower(key)
	if !s.v.IsSet(key) {
		return "", false
	}
	return s.v.GetString(key), true
}

// Seed returns general.seed, or DefaultSeed when absent or unparsable.
// A bare seed key outside any section counts too.
func (s *Settings) Seed() uint64 {
	raw, ok := s.lookup("general.seed", "default.seed")
	if !ok {
		return DefaultSeed
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return DefaultSeed
	}
	return seed
}

// QuickTest returns tests.quick, default false. Quick mode asks test
// helpers to shrink fold and permutation counts.
func (s *Settings) QuickTest() bool {
	return s.boolean("tests.quick", false)
}

// LabileTests returns tests.labile, default true. When false, tests that
// depend on timing or scheduling are skipped.
func (s *Settings) LabileTests() bool {
	return s.boolean("tests.labile", true)
}

// CVVerbose returns verbose.cv, default false. When true, cross-validation
// drivers log per-fold progress.
func (s *Settings) CVVerbose() bool {
	return s.boolean("verbose.cv", false)
}

// lookup returns the first key that is set.
func (s *Settings) lookup(keys ...string) (string, bool) {
	for _, key := range keys {
		if raw, ok := s.Get(key); ok {
			return raw, true
		}
	}
	return "", false
}

func (s *Settings) boolean(key string, def bool) bool {
	raw, ok := s.Get(key)
	if !ok {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
