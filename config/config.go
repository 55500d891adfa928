package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults for the matching policy. They mirror what the product shipped
// with; config.yaml can override every one of them.
const (
	DefaultCandidateLimit   = 20
	DefaultTopN             = 10
	DefaultBaselineMin      = 30
	DefaultBaselineMax      = 70
	DefaultNotifyThreshold  = 80
	DefaultScoreCacheTTLMin = 60
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Addr string `yaml:"-"` // computed after load
	} `yaml:"server"`
	LLM struct {
		APIKey      string  `yaml:"api_key"`
		Model       string  `yaml:"model"`
		BaseURL     string  `yaml:"base_url"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
		TimeoutSec  int     `yaml:"timeout_sec"`
	} `yaml:"llm"`
	Matching struct {
		CandidateLimit   int     `yaml:"candidate_limit"`  // cap on fetched candidates
		TopN             int     `yaml:"top_n"`            // ranked matches kept per request
		BaselineMin      float64 `yaml:"baseline_min"`     // fallback score range, inclusive
		BaselineMax      float64 `yaml:"baseline_max"`     // fallback score range, exclusive
		NotifyThreshold  float64 `yaml:"notify_threshold"` // notification fires for scores strictly above
		ScoreCacheTTLMin int     `yaml:"score_cache_ttl_min"`
	} `yaml:"matching"`
	Log struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		Output   string `yaml:"output"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`
	DB struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Username        string `yaml:"username"`
		Password        string `yaml:"password"`
		Database        string `yaml:"database"`
		Charset         string `yaml:"charset"`
		ParseTime       bool   `yaml:"parse_time"`
		DSN             string `yaml:"-"` // computed after load
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // minutes
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Refresh struct {
		Enabled          bool `yaml:"enabled"`
		Hour             int  `yaml:"hour"`   // daily refresh hour (0-23)
		Minute           int  `yaml:"minute"` // daily refresh minute (0-59)
		StaleAfterHours  int  `yaml:"stale_after_hours"`
		Concurrency      int  `yaml:"concurrency"`
		CheckIntervalSec int  `yaml:"check_interval_sec"`
	} `yaml:"refresh"`
	Timeouts struct {
		RequestSec  int `yaml:"request_sec"`
		ResponseSec int `yaml:"response_sec"`
		IdleSec     int `yaml:"idle_sec"`
	} `yaml:"timeouts"`
}

func Load() *Config {
	// Load .env first; a missing file is fine, system env still applies.
	_ = godotenv.Load()

	var cfg Config

	if data, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Printf("Error loading config.yaml: %v, falling back to environment variables", err)
			return loadFromEnv()
		}
		log.Println("Loading configuration from config.yaml")

		cfg.Server.Addr = fmt.Sprintf(":%d", cfg.Server.Port)

		// Secrets always come from the environment when set there.
		applyEnvOverrides(&cfg)

		if cfg.DB.DSN == "" {
			cfg.DB.DSN = buildDSN(&cfg)
		}

		cfg.applyMatchingDefaults()
		return &cfg
	}

	return loadFromEnv()
}

// loadFromEnv builds a minimal configuration when config.yaml is absent.
func loadFromEnv() *Config {
	var cfg Config

	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	cfg.Server.Addr = fmt.Sprintf(":%d", cfg.Server.Port)

	applyEnvOverrides(&cfg)

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
	} else if cfg.DB.Host != "" {
		cfg.DB.DSN = buildDSN(&cfg)
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}

	cfg.applyMatchingDefaults()

	log.Println("Configuration loaded from environment, some settings may be missing")
	return &cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_USERNAME"); v != "" {
		cfg.DB.Username = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		cfg.DB.Password = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
}

func buildDSN(cfg *Config) string {
	if cfg.DB.Charset == "" {
		cfg.DB.Charset = "utf8mb4"
	}
	parseTime := ""
	if cfg.DB.ParseTime {
		parseTime = "&parseTime=true"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s%s",
		cfg.DB.Username,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Database,
		cfg.DB.Charset,
		parseTime)
}

// applyMatchingDefaults fills unset matching policy knobs with the shipped
// defaults so an empty config.yaml still produces the documented behavior.
func (c *Config) applyMatchingDefaults() {
	if c.Matching.CandidateLimit <= 0 {
		c.Matching.CandidateLimit = DefaultCandidateLimit
	}
	if c.Matching.TopN <= 0 {
		c.Matching.TopN = DefaultTopN
	}
	if c.Matching.BaselineMin <= 0 {
		c.Matching.BaselineMin = DefaultBaselineMin
	}
	if c.Matching.BaselineMax <= c.Matching.BaselineMin {
		c.Matching.BaselineMax = DefaultBaselineMax
	}
	if c.Matching.NotifyThreshold <= 0 {
		c.Matching.NotifyThreshold = DefaultNotifyThreshold
	}
	if c.Matching.ScoreCacheTTLMin <= 0 {
		c.Matching.ScoreCacheTTLMin = DefaultScoreCacheTTLMin
	}
}
