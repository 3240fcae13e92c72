package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/grovetools/pollwatch/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	root := NewStandardCommand("pollwatch", "test")
	root.AddCommand(NewVersionCommand("pollwatch"))

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())

	assert.Contains(t, buf.String(), "pollwatch "+version.Version)
	assert.Contains(t, buf.String(), "Go Version:")
}

func TestVersionCommandJSON(t *testing.T) {
	root := NewStandardCommand("pollwatch", "test")
	root.AddCommand(NewVersionCommand("pollwatch"))

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())

	var info version.Info
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, version.Version, info.Version)
}

func TestSchemaCommand(t *testing.T) {
	root := NewStandardCommand("pollwatch", "test")
	root.AddCommand(NewSchemaCommand(func() ([]byte, error) {
		return []byte(`{"type":"object"}`), nil
	}))

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"schema"})
	require.NoError(t, root.Execute())
	assert.JSONEq(t, `{"type":"object"}`, buf.String())
}
