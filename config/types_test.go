package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected Config
	}{
		{
			name:   "empty config",
			config: Config{},
			expected: Config{
				Version:  "1.0",
				Interval: "1s",
				Output:   OutputConfig{Format: "text"},
			},
		},
		{
			name: "explicit values are kept",
			config: Config{
				Version:  "2",
				Interval: "250ms",
				Output:   OutputConfig{Format: "json"},
			},
			expected: Config{
				Version:  "2",
				Interval: "250ms",
				Output:   OutputConfig{Format: "json"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.SetDefaults()
			assert.Equal(t, tt.expected, tt.config)
		})
	}
}

func TestWatchConfigEnabled(t *testing.T) {
	yes, no := true, false
	assert.False(t, (&Config{}).WatchConfigEnabled())
	assert.False(t, (&Config{WatchConfig: &no}).WatchConfigEnabled())
	assert.True(t, (&Config{WatchConfig: &yes}).WatchConfigEnabled())
}

func TestUnmarshalExtension(t *testing.T) {
	type section struct {
		Level   string `yaml:"level"`
		Retries int    `yaml:"retries"`
	}

	cfg := &Config{Extensions: map[string]interface{}{
		"custom": map[string]interface{}{"level": "debug", "retries": "3"},
	}}

	var got section
	require.NoError(t, cfg.UnmarshalExtension("custom", &got))
	assert.Equal(t, section{Level: "debug", Retries: 3}, got)

	untouched := section{Level: "keep"}
	require.NoError(t, cfg.UnmarshalExtension("missing", &untouched))
	assert.Equal(t, "keep", untouched.Level)
}
