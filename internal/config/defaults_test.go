package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultDatasetRoot, cfg.Dataset.Root)
	assert.Equal(t, DefaultSDFFile, cfg.Dataset.SDFFile)
	assert.Equal(t, DefaultSplitTrain+DefaultSplitVal+DefaultSplitTest, cfg.Split.Train+cfg.Split.Val+cfg.Split.Test)
	assert.Equal(t, uint32(0), cfg.Split.Seed)
	assert.Equal(t, DefaultBatchSize, cfg.Batch.Size)
	assert.Equal(t, 0.8, cfg.Batch.ReserveFraction)
	assert.Equal(t, CacheBackendLocal, cfg.Cache.Backend)
	assert.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Split.Train = 8
	cfg.Batch.Size = 3
	cfg.Server.Addr = ":9999"
	ApplyDefaults(cfg)

	assert.Equal(t, 8, cfg.Split.Train)
	assert.Zero(t, cfg.Split.Val)
	assert.Equal(t, 3, cfg.Batch.Size)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint32(DefaultSplitSeed), cfg.Split.Seed)
	assert.True(t, cfg.Metrics.Enabled)
	assert.NoError(t, cfg.Validate())
}

//Personal.AI order the ending
