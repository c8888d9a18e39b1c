package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-virgo/config"
)

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "virgo-node "+Version)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
identity:
  node_id: from-file
  identities:
    - full_path: "all.science.cs.ai.001::claerk"
      role_path: "cs.ai.001"
transport:
  listen_addr: "127.0.0.1:7000"
`), 0o600))

	cmd := newRunCmd()
	require.NoError(t, cmd.Flags().Parse([]string{
		"--node-id", "from-flag",
		"--metrics-addr", "127.0.0.1:9999",
		"--codec", "cbor",
	}))

	cfg, err := loadConfig(cmd.Flags(), path)
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Identity.NodeID)
	assert.Equal(t, "127.0.0.1:7000", cfg.Transport.ListenAddr, "unset flag keeps file value")
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9999", cfg.Metrics.ListenAddr)
	assert.Equal(t, config.CodecCBOR, cfg.Heartbeat.Codec)
	require.Len(t, cfg.Identity.Identities, 1)
	assert.Equal(t, "cs.ai.001", cfg.Identity.Identities[0].RolePath.String())
}

func TestLoadConfig_Defaults(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.Flags().Parse(nil))

	cfg, err := loadConfig(cmd.Flags(), "")
	require.NoError(t, err)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, config.NewConfig().Transport.ListenAddr, cfg.Transport.ListenAddr)
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--codec", "xml"}))

	_, err := loadConfig(cmd.Flags(), "")
	assert.Error(t, err)
}
