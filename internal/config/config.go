// Load envs from .env
// Load YAML config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//Chrome remote debugging endpoint (an already running, human-authenticated browser)
	ChromeEndpoint string `yaml:"chrome_endpoint" env:"CHROME_ENDPOINT"`
	//Dashboard backend that persists extracted records
	APIBase string `yaml:"api_base" env:"DASHBOARD_API_BASE"`
	//Paths
	DataDir   string `yaml:"data_dir"`
	CachePath string `yaml:"cache_path"`
	//Extraction limits
	MaxRecords      int `yaml:"max_records"`
	ConnectAttempts int `yaml:"connect_attempts"`
	//Boilerplate phrases stripped from scraped text before storage
	BoilerplatePhrases []string `yaml:"boilerplate_phrases"`
	//Optional Telegram notifications for new messages
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if endpoint := os.Getenv("CHROME_ENDPOINT"); endpoint != "" {
		cfg.ChromeEndpoint = endpoint
	}

	if base := os.Getenv("DASHBOARD_API_BASE"); base != "" {
		cfg.APIBase = base
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Set default values if not set
	if cfg.ChromeEndpoint == "" {
		cfg.ChromeEndpoint = "http://localhost:9222"
	}

	if cfg.APIBase == "" {
		cfg.APIBase = "http://localhost:8000"
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}

	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = 20
	}

	if cfg.ConnectAttempts <= 0 {
		cfg.ConnectAttempts = 3
	}

	if len(cfg.BoilerplatePhrases) == 0 {
		cfg.BoilerplatePhrases = []string{"end-of-message", "View proposal", "Send message"}
	}

	return cfg
}
