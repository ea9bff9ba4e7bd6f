package kafka_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " broker-1:9092, broker-2:9092 ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Brokers)
	assert.Equal(t, int64(-2), cfg.ConsumerStartOffset)
	assert.Equal(t, "snappy", cfg.ProducerCompression)
	assert.True(t, cfg.EnableMiddleware)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvKafkaProducerCompression, "ZSTD")
	t.Setenv(EnvKafkaConsumerMaxRetries, "7")
	t.Setenv(EnvKafkaConsumerRetryBackoff, "1s")
	t.Setenv(EnvKafkaEnableMiddleware, "not-a-bool")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "zstd", cfg.ProducerCompression)
	assert.Equal(t, 7, cfg.ConsumerMaxRetries)
	assert.Equal(t, time.Second, cfg.ConsumerRetryBackoff)
	assert.True(t, cfg.EnableMiddleware)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	t.Setenv(EnvKafkaProducerCompression, "brotli")
	t.Setenv(EnvKafkaProducerRequireAcks, "2")
	t.Setenv(EnvKafkaConsumerSessionTimeout, "1s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ProducerCompression")
	assert.Contains(t, err.Error(), "ProducerRequireAcks")
	assert.Contains(t, err.Error(), "ConsumerHeartbeatInterval must be shorter")
}

func TestValidateRejectsEmptyBroker(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "broker-1:9092,,")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broker 1 cannot be empty")
}
