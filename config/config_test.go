package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultSymbol, cfg.Symbol)
	assert.Equal(t, DefaultServer, cfg.Server)
	assert.Equal(t, DefaultSellPrice, cfg.BaseSellPrice)
	assert.Equal(t, DefaultBuyPrice, cfg.BaseBuyPrice)
}

func TestExplicitZeroValuesSurviveDefaults(t *testing.T) {
	// Zero is a valid variation fraction and base amount; defaulting must
	// not rewrite it.
	cfg := &Config{ApiKey: "k", ApiSecret: "s", PriceVar: 0, BaseAmount: 0}
	cfg.ApplyDefaults()

	assert.Equal(t, 0.0, cfg.PriceVar)
	assert.Equal(t, 0.0, cfg.BaseAmount)
	require.NoError(t, cfg.Validate())
}

func TestConfigDefaultsReadCredentialsFromEnv(t *testing.T) {
	t.Setenv("KKEX_API_KEY", "key-from-env")
	t.Setenv("KKEX_API_SECRET", "secret-from-env")

	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, "key-from-env", cfg.ApiKey)
	assert.Equal(t, "secret-from-env", cfg.ApiSecret)
}

func TestConfigValidation(t *testing.T) {
	valid := &Config{ApiKey: "k", ApiSecret: "s"}
	valid.ApplyDefaults()
	require.NoError(t, valid.Validate())

	missingCreds := &Config{}
	missingCreds.ApplyDefaults()
	missingCreds.ApiKey = ""
	missingCreds.ApiSecret = ""
	assert.Error(t, missingCreds.Validate())

	varTooLarge := &Config{ApiKey: "k", ApiSecret: "s", PriceVar: 1.0}
	varTooLarge.ApplyDefaults()
	assert.Error(t, varTooLarge.Validate())

	varNegative := &Config{ApiKey: "k", ApiSecret: "s", PriceVar: -0.1}
	varNegative.ApplyDefaults()
	assert.Error(t, varNegative.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	content := `
apiKey: file-key
apiSecret: file-secret
symbol: ETHBTC
baseSellPrice: 0.09
baseBuyPrice: 0.08
priceVar: 0.2
baseAmount: 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.ApiKey)
	assert.Equal(t, "ETHBTC", cfg.Symbol)
	assert.Equal(t, 0.09, cfg.BaseSellPrice)
	assert.Equal(t, 0.08, cfg.BaseBuyPrice)
	assert.Equal(t, 0.2, cfg.PriceVar)
	assert.Equal(t, 2.5, cfg.BaseAmount)
	// Defaults still fill unset fields
	assert.Equal(t, DefaultServer, cfg.Server)

	require.NoError(t, cfg.Validate())
}

func TestLoadFileUnsetNumericsTakeDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	content := `
apiKey: file-key
apiSecret: file-secret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultPriceVar, cfg.PriceVar)
	assert.Equal(t, DefaultBaseAmount, cfg.BaseAmount)
}

func TestLoadFileKeepsExplicitZeros(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	content := `
apiKey: file-key
apiSecret: file-secret
priceVar: 0
baseAmount: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.PriceVar)
	assert.Equal(t, 0.0, cfg.BaseAmount)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
