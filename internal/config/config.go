package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr          string `yaml:"listen_addr"`
	DatabasePath        string `yaml:"database_path"`
	JWTSecret           string `yaml:"jwt_secret"`
	BcryptCost          int    `yaml:"bcrypt_cost"`
	TokenTTLHours       int    `yaml:"token_ttl_hours"`
	ExpirySweepSchedule string `yaml:"expiry_sweep_schedule"` // cron expression
	FreeTaskLimit       int    `yaml:"free_task_limit"`
}

// Load reads the YAML config at path, applying defaults for missing
// values. A missing file yields the default config; JWT_SECRET from the
// environment overrides the file in either case.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}

	// Apply defaults for missing values
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "focusdoro.db"
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.TokenTTLHours == 0 {
		cfg.TokenTTLHours = 24
	}
	if cfg.ExpirySweepSchedule == "" {
		cfg.ExpirySweepSchedule = "0 1 * * *" // 1 AM daily
	}
	if cfg.FreeTaskLimit == 0 {
		cfg.FreeTaskLimit = 5
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{}
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required (file or JWT_SECRET env)")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("jwt_secret must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 14, got %d", c.BcryptCost)
	}
	return nil
}
