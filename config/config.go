// Package config defines host-tunable engine policy (SPEC_FULL §2.3):
// knobs spec.md leaves to "the host" rather than the core pipeline itself.
package config

import "gopkg.in/yaml.v2"

// EngineConfig controls behaviour the core pipeline defers to its embedder.
type EngineConfig struct {
	// MaxResultRows caps the number of rows a SELECT can return after
	// ORDER BY/LIMIT; 0 means unlimited. Guards a pathological cross join
	// the way a caller-side timeout would (spec.md §5).
	MaxResultRows int `yaml:"max_result_rows"`

	// DefaultTableSize is loaded and kept on the config, but no part of the
	// engine reads it; it has no effect on execution or Output.
	DefaultTableSize int `yaml:"default_table_size"`

	// StrictReservedWords, when true, keeps reserved-for-error keywords
	// (spec.md §4.3/§6) rejected as UnsupportedFeature. When false, the
	// parser still rejects them, but reports a plain SyntaxError instead.
	StrictReservedWords bool `yaml:"strict_reserved_words"`
}

// Default returns the engine's out-of-the-box policy.
func Default() *EngineConfig {
	return &EngineConfig{
		MaxResultRows:       0,
		DefaultTableSize:    16,
		StrictReservedWords: true,
	}
}

// Load parses an EngineConfig from YAML, starting from Default() so an
// incomplete document still yields sane values for the fields it omits.
func Load(data []byte) (*EngineConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
