package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcsforge/commitgraph/config"
)

func TestDecodeDefaults(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestDecodePartialOverride(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader("useOnRead: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.UseOnRead)
	assert.False(t, cfg.WriteDuringGC, "unset field keeps its default")
}

func TestDecodeBothFields(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader("writeDuringGC: true\nuseOnRead: true\n"))
	require.NoError(t, err)
	assert.Equal(t, config.Config{WriteDuringGC: true, UseOnRead: true}, cfg)
}
