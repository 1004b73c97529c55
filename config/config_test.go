package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testDomain = "0x000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func validConfig() Config {
	c := DefaultConfig()
	c.Domain = testDomain
	return c
}

func TestDefaultConfig_NeedsDomain(t *testing.T) {
	c := DefaultConfig()
	err := c.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "domain is required")

	c = validConfig()
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"short domain", func(c *Config) { c.Domain = "0x0102" }, "invalid domain"},
		{"non-hex domain", func(c *Config) { c.Domain = "hubble" }, "invalid domain"},
		{"empty datadir", func(c *Config) { c.DataDir = "" }, "datadir"},
		{"zero depth", func(c *Config) { c.Tree.Depth = 0 }, "depth"},
		{"batch deeper than tree", func(c *Config) { c.Tree.Depth = 3; c.Tree.BatchDepth = 4 }, "batch depth"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
		{"empty namespace", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Namespace = "" }, "namespace"},
		{"negative cache", func(c *Config) { c.Cache.MessagePoints = -1 }, "cache"},
	}
	for _, tt := range tests {
		c := validConfig()
		tt.mutate(&c)
		err := c.Validate()
		require.Error(t, err, tt.name)
		require.True(t, strings.HasPrefix(err.Error(), "config: "), tt.name)
		require.Contains(t, err.Error(), tt.errMsg, tt.name)
	}
}

func TestDomainTag(t *testing.T) {
	c := validConfig()
	d, err := c.DomainTag()
	require.NoError(t, err)
	require.Equal(t, byte(0x1f), d[31])
	require.Equal(t, testDomain, d.Hex())
}

func TestResolvePath(t *testing.T) {
	c := validConfig()
	c.DataDir = "/var/hubble"
	require.Equal(t, "/var/hubble/registry", c.ResolvePath("registry"))
	require.Equal(t, "/tmp/x", c.ResolvePath("/tmp/x"))
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hubble.yaml")
	body := "domain: \"" + testDomain + "\"\n" +
		"datadir: " + dir + "\n" +
		"tree:\n  depth: 8\n  batch_depth: 2\n" +
		"log:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, testDomain, c.Domain)
	require.Equal(t, 8, c.Tree.Depth)
	require.Equal(t, 2, c.Tree.BatchDepth)
	require.Equal(t, "debug", c.Log.Level)
	require.Equal(t, "json", c.Log.Format)
	require.Equal(t, 1024, c.Cache.MessagePoints)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HUBBLE_DOMAIN", testDomain)
	t.Setenv("HUBBLE_TREE_DEPTH", "12")
	t.Setenv("HUBBLE_CACHE_MESSAGE_POINTS", "0")

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 12, c.Tree.Depth)
	require.Equal(t, 0, c.Cache.MessagePoints)
	require.Equal(t, c.RegistryConfig().Depth, 12)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("HUBBLE_DOMAIN", "")
	_, err = Load("")
	require.Error(t, err)
}

func TestRead_DefersValidation(t *testing.T) {
	t.Setenv("HUBBLE_DOMAIN", "")
	c, err := Read("")
	require.NoError(t, err)
	require.Empty(t, c.Domain)
	require.Error(t, c.Validate())

	c.Domain = testDomain
	require.NoError(t, c.Validate())
}
