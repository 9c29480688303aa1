package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"gadgetshelf/internal/config"
	"gadgetshelf/internal/http/handlers"
	"gadgetshelf/internal/repos"
	"gadgetshelf/internal/sessions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	store, err := repos.Open(cfg.StoreDriver, cfg.DataFile, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	var sess sessions.Store = sessions.NewMemory(cfg.SessionTTL)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("redis %s: %v", cfg.RedisAddr, err)
		}
		defer client.Close()
		sess = sessions.NewRedis(client, cfg.SessionTTL)
		log.Printf("[sessions] redis %s", cfg.RedisAddr)
	} else {
		log.Printf("[sessions] in-memory")
	}

	log.Printf("[static] /static -> %s", cfg.StaticDir)
	log.Printf("[static] /media  -> %s", cfg.MediaDir)

	app := handlers.NewApp(cfg, handlers.NewDeps(store, sess, cfg))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
