package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Google GoogleMapsConfig
	Search SearchConfig
	Redis  RedisConfig
	Cache  CacheConfig
	Log    LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type GoogleMapsConfig struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
}

// SearchConfig - настройки оркестрации поиска. Значения по умолчанию
// подобраны эмпирически под поведение Google Places API.
type SearchConfig struct {
	Keyword          string
	MaxResults       int
	MaxPagesPerTile  int
	PageTokenDelay   time.Duration
	EmptyPageDelay   time.Duration
	EmptyPageRetries int
	DetailsLimit     int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	GeocodeCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Google: GoogleMapsConfig{
			APIKey:         viper.GetString("GOOGLE_MAPS_API_KEY"),
			BaseURL:        viper.GetString("GOOGLE_MAPS_BASE_URL"),
			RequestTimeout: time.Duration(viper.GetInt("GOOGLE_REQUEST_TIMEOUT")) * time.Second,
		},
		Search: SearchConfig{
			Keyword:          viper.GetString("SEARCH_KEYWORD"),
			MaxResults:       viper.GetInt("SEARCH_MAX_RESULTS"),
			MaxPagesPerTile:  viper.GetInt("SEARCH_MAX_PAGES_PER_TILE"),
			PageTokenDelay:   time.Duration(viper.GetInt("SEARCH_PAGE_TOKEN_DELAY_MS")) * time.Millisecond,
			EmptyPageDelay:   time.Duration(viper.GetInt("SEARCH_EMPTY_PAGE_DELAY_MS")) * time.Millisecond,
			EmptyPageRetries: viper.GetInt("SEARCH_EMPTY_PAGE_RETRIES"),
			DetailsLimit:     viper.GetInt("SEARCH_DETAILS_LIMIT"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			GeocodeCacheTTL: time.Duration(viper.GetInt("GEOCODE_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Set default values if not provided
	if cfg.Google.BaseURL == "" {
		cfg.Google.BaseURL = "https://maps.googleapis.com"
	}
	if cfg.Google.RequestTimeout == 0 {
		cfg.Google.RequestTimeout = 30 * time.Second
	}
	if cfg.Search.Keyword == "" {
		cfg.Search.Keyword = "barber shop"
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 500
	}
	if cfg.Search.MaxPagesPerTile == 0 {
		cfg.Search.MaxPagesPerTile = 3
	}
	if cfg.Search.PageTokenDelay == 0 {
		cfg.Search.PageTokenDelay = 2000 * time.Millisecond
	}
	if cfg.Search.EmptyPageDelay == 0 {
		cfg.Search.EmptyPageDelay = 1500 * time.Millisecond
	}
	if cfg.Search.EmptyPageRetries == 0 {
		cfg.Search.EmptyPageRetries = 3
	}
	if cfg.Search.DetailsLimit == 0 {
		cfg.Search.DetailsLimit = 50
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры до любой сетевой активности
func (c *Config) Validate() error {
	if c.Google.APIKey == "" {
		return fmt.Errorf("GOOGLE_MAPS_API_KEY is required")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
