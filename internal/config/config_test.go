package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "key")
	t.Setenv("BINANCE_API_SECRET", "secret")
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "")
	t.Setenv("BINANCE_API_SECRET", "")

	_, err := Load("testdata/nonexistent.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BINANCE_API_KEY")

	t.Setenv("BINANCE_API_KEY", "key")
	_, err = Load("testdata/nonexistent.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BINANCE_API_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	setCredentials(t)
	t.Setenv("BINANCE_TESTNET", "")
	t.Setenv("RECV_WINDOW_MS", "")
	t.Setenv("MARGIN_BUFFER_PCT", "")
	t.Setenv("MARGIN_PRECISION", "")

	cfg, err := Load("testdata/nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "key", cfg.APIKey)
	assert.True(t, cfg.Testnet, "testnet must default to true")
	assert.Equal(t, int64(5000), cfg.RecvWindowMS)
	assert.Equal(t, "0.1", cfg.MarginBufferPct.String())
	assert.Equal(t, int32(8), cfg.MarginPrecision)
}

func TestLoad_Overrides(t *testing.T) {
	setCredentials(t)
	t.Setenv("BINANCE_TESTNET", "false")
	t.Setenv("RECV_WINDOW_MS", "10000")
	t.Setenv("MARGIN_BUFFER_PCT", "0.2")
	t.Setenv("MARGIN_PRECISION", "6")

	cfg, err := Load("testdata/nonexistent.env")
	require.NoError(t, err)

	assert.False(t, cfg.Testnet)
	assert.Equal(t, int64(10000), cfg.RecvWindowMS)
	assert.Equal(t, "0.2", cfg.MarginBufferPct.String())
	assert.Equal(t, int32(6), cfg.MarginPrecision)
}

func TestLoad_InvalidValues(t *testing.T) {
	setCredentials(t)

	t.Setenv("MARGIN_BUFFER_PCT", "-0.1")
	_, err := Load("testdata/nonexistent.env")
	assert.Error(t, err)

	t.Setenv("MARGIN_BUFFER_PCT", "0.1")
	t.Setenv("MARGIN_PRECISION", "40")
	_, err = Load("testdata/nonexistent.env")
	assert.Error(t, err)

	t.Setenv("MARGIN_PRECISION", "8")
	t.Setenv("BINANCE_TESTNET", "maybe")
	_, err = Load("testdata/nonexistent.env")
	assert.Error(t, err)
}
