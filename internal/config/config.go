package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds everything the tool needs to talk to Binance futures.
// Credentials are required; the rest has defaults matching the exchange's
// documented behavior.
type Config struct {
	APIKey    string
	APISecret string

	// Testnet selects the futures testnet base URL. Defaults to true so a
	// misconfigured run cannot touch real funds.
	Testnet bool

	// RecvWindowMS is forwarded on every signed request.
	RecvWindowMS int64

	// MarginBufferPct is the safety buffer added on top of notional/leverage
	// when estimating required margin (0.10 = 10%). MarginPrecision is the
	// number of decimal places the estimate is rounded to. Both are exposed
	// here because the right values depend on exchange margin tiers this
	// tool does not model.
	MarginBufferPct decimal.Decimal
	MarginPrecision int32
}

// Load reads the given .env file (optional, the process environment wins)
// and validates the result. Missing credentials are reported here, before
// any network call is made.
func Load(envFile string) (*Config, error) {
	// A missing .env file is fine; credentials may already be exported.
	_ = godotenv.Load(envFile)

	cfg := &Config{}
	var err error

	cfg.APIKey = os.Getenv("BINANCE_API_KEY")
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("BINANCE_API_KEY is required (set it in %s or the environment)", envFile)
	}

	cfg.APISecret = os.Getenv("BINANCE_API_SECRET")
	if cfg.APISecret == "" {
		return nil, fmt.Errorf("BINANCE_API_SECRET is required (set it in %s or the environment)", envFile)
	}

	cfg.Testnet, err = parseBool(os.Getenv("BINANCE_TESTNET"), "BINANCE_TESTNET", true)
	if err != nil {
		return nil, err
	}

	cfg.RecvWindowMS, err = parseInt64(os.Getenv("RECV_WINDOW_MS"), "RECV_WINDOW_MS", 5000)
	if err != nil {
		return nil, err
	}

	cfg.MarginBufferPct, err = parseDecimal(os.Getenv("MARGIN_BUFFER_PCT"), "MARGIN_BUFFER_PCT", "0.10")
	if err != nil {
		return nil, err
	}
	if cfg.MarginBufferPct.IsNegative() {
		return nil, fmt.Errorf("MARGIN_BUFFER_PCT must not be negative, got: %s", cfg.MarginBufferPct)
	}

	precision, err := parseInt64(os.Getenv("MARGIN_PRECISION"), "MARGIN_PRECISION", 8)
	if err != nil {
		return nil, err
	}
	if precision < 0 || precision > 18 {
		return nil, fmt.Errorf("MARGIN_PRECISION must be between 0 and 18, got: %d", precision)
	}
	cfg.MarginPrecision = int32(precision)

	return cfg, nil
}

func parseBool(value, name string, def bool) (bool, error) {
	if value == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	return b, nil
}

func parseInt64(value, name string, def int64) (int64, error) {
	if value == "" {
		return def, nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	return i, nil
}

func parseDecimal(value, name, def string) (decimal.Decimal, error) {
	if value == "" {
		value = def
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	return d, nil
}
