package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	AdminChatID      int64  `mapstructure:"ADMIN_CHAT_ID"`
	DataDir          string `mapstructure:"DATA_DIR"`

	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	// Simulation tuning. RewardRatePerGH is BTC earned per GH/s per second.
	RewardRatePerGH    float64 `mapstructure:"REWARD_RATE_PER_GH"`
	TickSeconds        int     `mapstructure:"TICK_SECONDS"`
	PayoutSeconds      int     `mapstructure:"PAYOUT_SECONDS"`
	ConfirmSeconds     int     `mapstructure:"CONFIRM_SECONDS"`
	RateRefreshSeconds int     `mapstructure:"RATE_REFRESH_SECONDS"`
	LiveRates          bool    `mapstructure:"LIVE_RATES"`

	MinWithdrawBTC  float64 `mapstructure:"MIN_WITHDRAW_BTC"`
	MinWithdrawETH  float64 `mapstructure:"MIN_WITHDRAW_ETH"`
	MinWithdrawUSDT float64 `mapstructure:"MIN_WITHDRAW_USDT"`
}

func LoadConfig(path string) (config Config, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return config, fmt.Errorf("failed to resolve config path: %w", err)
	}

	viper.AddConfigPath(filepath.Dir(absPath))
	viper.SetConfigName(filepath.Base(absPath))
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("REWARD_RATE_PER_GH", 0.00000000005)
	viper.SetDefault("TICK_SECONDS", 1)
	viper.SetDefault("PAYOUT_SECONDS", 180)
	viper.SetDefault("CONFIRM_SECONDS", 10)
	viper.SetDefault("RATE_REFRESH_SECONDS", 60)
	viper.SetDefault("MIN_WITHDRAW_BTC", 0.0005)
	viper.SetDefault("MIN_WITHDRAW_ETH", 0.01)
	viper.SetDefault("MIN_WITHDRAW_USDT", 50)

	if err := viper.ReadInConfig(); err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}

	if err := viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickSeconds) * time.Second
}

func (c *Config) PayoutInterval() time.Duration {
	return time.Duration(c.PayoutSeconds) * time.Second
}

func (c *Config) ConfirmDelay() time.Duration {
	return time.Duration(c.ConfirmSeconds) * time.Second
}

func (c *Config) RateRefreshInterval() time.Duration {
	return time.Duration(c.RateRefreshSeconds) * time.Second
}

// MinWithdraw returns the minimum withdrawal amount for a currency.
func (c *Config) MinWithdraw(currency string) float64 {
	switch currency {
	case "btc":
		return c.MinWithdrawBTC
	case "eth":
		return c.MinWithdrawETH
	case "usdt":
		return c.MinWithdrawUSDT
	}
	return 0
}
