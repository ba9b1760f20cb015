package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "kafka", cfg.Transport)
	assert.Equal(t, "remote", cfg.ProviderMode)
	assert.Equal(t, 5*time.Minute, cfg.RPCTimeout)
	assert.Equal(t, "effect_nsides.twosides", cfg.TwosidesTable)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RPC_TIMEOUT", "250ms")
	t.Setenv("EMBED_RESPONDER", "true")
	t.Setenv("REPORT_CONCURRENCY", "not-a-number")

	cfg := Load()
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 250*time.Millisecond, cfg.RPCTimeout)
	assert.True(t, cfg.EmbedResponder)
	assert.Equal(t, 4, cfg.ReportConcurrency)
}
