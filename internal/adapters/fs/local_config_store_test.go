package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/deployer/internal/domain/config"
)

func TestLocalConfigStore(t *testing.T) {
	ctx := context.Background()
	dataDir := filepath.Join(t.TempDir(), ".deployer")
	store := NewLocalConfigStore(&config.RuntimeConfig{DataDir: dataDir})

	assert.False(t, store.Exists())
	local, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, &config.LocalConfig{}, local)

	local.Network = "sepolia"
	local.Timeout = "10m"
	require.NoError(t, store.Save(ctx, local))
	assert.True(t, store.Exists())

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, local, reloaded)

	// No temp files left behind
	entries, err := os.ReadDir(dataDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, LocalConfigFile, entries[0].Name())
}

func TestLocalConfigStore_ReadableByViper(t *testing.T) {
	dataDir := t.TempDir()
	store := NewLocalConfigStore(&config.RuntimeConfig{DataDir: dataDir})
	require.NoError(t, store.Save(context.Background(), &config.LocalConfig{Contract: "Vault", Timeout: "45s"}))

	v := viper.New()
	v.SetConfigFile(store.GetPath())
	require.NoError(t, v.ReadInConfig())

	assert.Equal(t, "Vault", v.GetString("contract"))
	assert.Equal(t, "45s", v.GetDuration("timeout").String())
	assert.False(t, v.IsSet("network"))
}

func TestLocalConfigStore_Corrupt(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, LocalConfigFile), []byte("{network"), 0644))

	_, err := NewLocalConfigStore(&config.RuntimeConfig{DataDir: dataDir}).Load(context.Background())
	assert.ErrorContains(t, err, "failed to parse")
}
