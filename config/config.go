package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger     `mapstructure:"logger"`
	DB         Database   `mapstructure:"database"`
	API        API        `mapstructure:"api"`
	Scheduler  Scheduler  `mapstructure:"scheduler"`
	MarketData MarketData `mapstructure:"market_data"`
	Cache      Cache      `mapstructure:"cache"`
	Screening  Screening  `mapstructure:"screening"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type Scheduler struct {
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	TickInterval   time.Duration `mapstructure:"tick_interval"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type MarketData struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	BaseTimeout      time.Duration `mapstructure:"base_timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
	CallDelay        time.Duration `mapstructure:"call_delay"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	ParamExpDuration  time.Duration `mapstructure:"param_exp_duration"`
}

// Screening holds the symbols the pipelines benchmark against. Numeric
// thresholds live in the screening_parameters table, not here.
type Screening struct {
	PrimaryBenchmark   string `mapstructure:"primary_benchmark"`
	SecondaryBenchmark string `mapstructure:"secondary_benchmark"`
	VolatilityIndex    string `mapstructure:"volatility_index"`
}

func Load() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("scheduler.max_concurrency", 2)
	viper.SetDefault("scheduler.tick_interval", time.Minute)
	viper.SetDefault("market_data.base_timeout", 15*time.Second)
	viper.SetDefault("market_data.max_request_per_min", 60)
	viper.SetDefault("market_data.call_delay", 100*time.Millisecond)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("cache.param_exp_duration", 5*time.Minute)
	viper.SetDefault("screening.primary_benchmark", "SPY")
	viper.SetDefault("screening.secondary_benchmark", "QQQ")
	viper.SetDefault("screening.volatility_index", "I:VIX")
}
