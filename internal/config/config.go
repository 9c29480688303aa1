package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Port             string        `env:"PORT" envDefault:"8080"`
	StoreDriver      string        `env:"STORE_DRIVER" envDefault:"json"`
	DataFile         string        `env:"DATA_FILE" envDefault:"./data/products.json"`
	DBDSN            string        `env:"DB_DSN" envDefault:"gadgetshelf.db"`
	TemplatesDir     string        `env:"TEMPLATES_DIR" envDefault:"./web/templates"`
	StaticDir        string        `env:"STATIC_DIR" envDefault:"./web/static"`
	MediaDir         string        `env:"MEDIA_DIR" envDefault:"./web/media"`
	LogFile          string        `env:"LOG_FILE" envDefault:"./gadgetshelf.log"`
	RedisAddr        string        `env:"REDIS_ADDR"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	ToastDelay       time.Duration `env:"TOAST_DELAY" envDefault:"3s"`
	LinkCheckTimeout time.Duration `env:"LINK_CHECK_TIMEOUT" envDefault:"5s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	log.Printf("[config] PORT=%s STORE_DRIVER=%s DATA_FILE=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s REDIS_ADDR=%s",
		cfg.Port, cfg.StoreDriver, cfg.DataFile, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.RedisAddr)
	return cfg, nil
}
