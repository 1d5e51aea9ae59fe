package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// WatchEntry identifies a wallet whose entitlement the daemon reports on.
// TokenAccount is the wallet's destination-token account queried for balance.
type WatchEntry struct {
	Wallet       string `yaml:"wallet"`
	TokenAccount string `yaml:"token_account"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Quote struct {
		BaseURL        string `yaml:"base_url"`
		InputMint      string `yaml:"input_mint"`
		OutputMint     string `yaml:"output_mint"`
		SlippageBps    int    `yaml:"slippage_bps"`
		OutputDecimals int    `yaml:"output_decimals"`
	} `yaml:"quote"`
	RPC struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"rpc"`
	Token struct {
		Mint     string `yaml:"mint"`
		Decimals int    `yaml:"decimals"`
	} `yaml:"token"`
	Reserve struct {
		TokenAccount    string  `yaml:"token_account"`
		Decimals        int     `yaml:"decimals"`
		LowWatermarkUSD float64 `yaml:"low_watermark_usd"`
	} `yaml:"reserve"`
	Rules struct {
		File string `yaml:"file"`
	} `yaml:"rules"`
	Accrual struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"accrual"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		DailyCron   string `yaml:"daily_cron"`
		ReserveCron string `yaml:"reserve_cron"`
	} `yaml:"schedule"`
	Watch []WatchEntry `yaml:"watch"`
	Proxy string       `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("QUOTE_BASE_URL"); v != "" {
		cfg.Quote.BaseURL = v
	}
	if v := os.Getenv("RPC_ENDPOINT"); v != "" {
		cfg.RPC.Endpoint = v
	}
	if v := os.Getenv("RESERVE_TOKEN_ACCOUNT"); v != "" {
		cfg.Reserve.TokenAccount = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SLIPPAGE_BPS"); v != "" {
		if bps, err := strconv.Atoi(v); err == nil {
			cfg.Quote.SlippageBps = bps
		}
	}
	if v := os.Getenv("RULES_FILE"); v != "" {
		cfg.Rules.File = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Quote.BaseURL == "" {
		cfg.Quote.BaseURL = "https://quote-api.jup.ag/v6"
	}
	if cfg.Quote.InputMint == "" {
		cfg.Quote.InputMint = "So11111111111111111111111111111111111111112" // wrapped SOL
	}
	if cfg.Quote.OutputMint == "" {
		cfg.Quote.OutputMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v" // USDC
	}
	if cfg.Quote.SlippageBps == 0 {
		cfg.Quote.SlippageBps = 10
	}
	if cfg.Quote.OutputDecimals == 0 {
		cfg.Quote.OutputDecimals = 6
	}
	if cfg.RPC.Endpoint == "" {
		cfg.RPC.Endpoint = "https://api.devnet.solana.com"
	}
	if cfg.Token.Decimals == 0 {
		cfg.Token.Decimals = 9
	}
	if cfg.Reserve.Decimals == 0 {
		cfg.Reserve.Decimals = 6
	}
	if cfg.Reserve.LowWatermarkUSD == 0 {
		cfg.Reserve.LowWatermarkUSD = 100
	}
	if cfg.Rules.File == "" {
		cfg.Rules.File = "configs/rules.json"
	}
	if cfg.Accrual.StateFile == "" {
		cfg.Accrual.StateFile = "data/accrual_state.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stake_sentinel.db"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 9 * * *"
	}
	if cfg.Schedule.ReserveCron == "" {
		cfg.Schedule.ReserveCron = "0 0 */6 * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Reserve.TokenAccount == "" {
		return fmt.Errorf("reserve.token_account is required")
	}
	if c.Token.Mint == "" {
		return fmt.Errorf("token.mint is required")
	}
	return nil
}
