package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port         int
	DatabaseURL  string
	RedisURL     string
	RedisEnabled bool
	APIKey       string

	TelegramBotToken string

	OpenAIAPIKey string
	OpenAIModel  string

	YahooBaseURL    string
	YahooRatePerMin int
	HTTPTimeoutSecs int
	NewsLimit       int

	AnalysisCacheTTLSecs int

	ForecastEnabled     bool
	ForecastHorizonDays int

	Watchlist     []string
	WatchlistFile string
	WatchlistCron string

	SSHPort                int
	SSHHostKeyPath         string
	SSHAllowedFingerprints []string

	MCPTransport          string
	MCPHTTPBind           string
	MCPHTTPPort           int
	MCPAuthToken          string
	MCPRequestTimeoutSecs int
	MCPRateLimitPerMin    int
}

const DefaultWatchlistCron = "*/30 9-15 * * 1-5"

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		YahooBaseURL:     strings.TrimRight(strings.TrimSpace(os.Getenv("YAHOO_BASE_URL")), "/"),
		WatchlistFile:    strings.TrimSpace(os.Getenv("WATCHLIST_FILE")),
		SSHHostKeyPath:   strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH")),
		MCPAuthToken:     os.Getenv("MCP_AUTH_TOKEN"),
	}

	cfg.Port = envInt("PORT", 8000)

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, analysis history will not be persisted")
	}
	cfg.RedisEnabled = envBool("REDIS_ENABLED", true)
	if cfg.RedisURL == "" {
		if cfg.RedisEnabled {
			log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		}
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY not set, watchlist refresh endpoint is unprotected")
	}

	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, headline sentiment uses the lexicon scorer only")
	}
	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.YahooRatePerMin = envInt("YAHOO_RATE_PER_MIN", 60)
	cfg.HTTPTimeoutSecs = envInt("HTTP_TIMEOUT_SECS", 15)
	cfg.NewsLimit = envInt("NEWS_LIMIT", 10)
	cfg.AnalysisCacheTTLSecs = envInt("ANALYSIS_CACHE_TTL_SECS", 300)

	cfg.ForecastEnabled = envBool("FORECAST_ENABLED", true)
	cfg.ForecastHorizonDays = envInt("FORECAST_HORIZON_DAYS", 5)

	cfg.Watchlist = SplitList(os.Getenv("WATCHLIST"))
	cfg.WatchlistCron = strings.TrimSpace(os.Getenv("WATCHLIST_CRON"))
	if cfg.WatchlistCron == "" {
		cfg.WatchlistCron = DefaultWatchlistCron
	}

	cfg.SSHPort = envInt("SSH_PORT", 23234)
	cfg.SSHAllowedFingerprints = SplitList(os.Getenv("SSH_ALLOWED_FINGERPRINTS"))

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Printf("Warning: unsupported MCP_TRANSPORT=%q, defaulting to stdio", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}
	cfg.MCPHTTPBind = strings.TrimSpace(os.Getenv("MCP_HTTP_BIND"))
	if cfg.MCPHTTPBind == "" {
		cfg.MCPHTTPBind = "127.0.0.1"
	}
	cfg.MCPHTTPPort = envInt("MCP_HTTP_PORT", 8090)
	cfg.MCPRequestTimeoutSecs = envInt("MCP_REQUEST_TIMEOUT_SECS", 30)
	cfg.MCPRateLimitPerMin = envInt("MCP_RATE_LIMIT_PER_MIN", 60)

	return cfg
}

// envInt returns def when the variable is unset or not a positive integer.
func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %t", key, v, def)
		return def
	}
	return b
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
