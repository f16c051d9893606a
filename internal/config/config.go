package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Firebase struct {
		CredentialsFile string `yaml:"credentials_file"`
	} `yaml:"firebase"`
	Dispatch DispatchSettings `yaml:"dispatch"`
}

// DispatchSettings drives the dispatch engine. Zero values are replaced
// with the defaults below at load time.
type DispatchSettings struct {
	ResponseWindowMin int `yaml:"response_window_min"`
	CycleIntervalSec  int `yaml:"cycle_interval_sec"`
	InitialBatch      int `yaml:"initial_batch"`
	ExpandedBatch     int `yaml:"expanded_batch"`
	MaxCandidates     int `yaml:"max_candidates"`
}

const (
	defaultResponseWindowMin = 30
	defaultCycleIntervalSec  = 60
	defaultInitialBatch      = 15
	defaultExpandedBatch     = 20
	defaultMaxCandidates     = 200
)

func LoadConfig() Config {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		log.Fatalf("Failed to unmarshal config data: %v", err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}

	if cfg.Dispatch.ResponseWindowMin <= 0 {
		cfg.Dispatch.ResponseWindowMin = defaultResponseWindowMin
	}
	if cfg.Dispatch.CycleIntervalSec <= 0 {
		cfg.Dispatch.CycleIntervalSec = defaultCycleIntervalSec
	}
	if cfg.Dispatch.InitialBatch <= 0 {
		cfg.Dispatch.InitialBatch = defaultInitialBatch
	}
	if cfg.Dispatch.ExpandedBatch <= 0 {
		cfg.Dispatch.ExpandedBatch = defaultExpandedBatch
	}
	if cfg.Dispatch.MaxCandidates <= 0 {
		cfg.Dispatch.MaxCandidates = defaultMaxCandidates
	}

	return cfg
}
