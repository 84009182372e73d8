package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/MeMoElprince/QA-Game/internal/auth"
	"github.com/MeMoElprince/QA-Game/internal/catalog"
	"github.com/MeMoElprince/QA-Game/internal/commerce"
	"github.com/MeMoElprince/QA-Game/internal/config"
	"github.com/MeMoElprince/QA-Game/internal/db"
	"github.com/MeMoElprince/QA-Game/internal/game"
	"github.com/MeMoElprince/QA-Game/internal/server"
	"github.com/MeMoElprince/QA-Game/internal/store/gormstore"
	"github.com/MeMoElprince/QA-Game/internal/users"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	err = db.ConfigurePool(conn,
		cfg.DBMaxOpenConns,
		cfg.DBMaxIdleConns,
		time.Duration(cfg.DBConnMaxLifetimeSeconds)*time.Second,
		time.Duration(cfg.DBConnMaxIdleTimeSeconds)*time.Second,
	)
	if err != nil {
		log.Fatalf("database pool setup failed: %v", err)
	}
	if cfg.MigrateOnBoot {
		if err := db.Migrate(conn); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
	}

	tokens := auth.NewTokens(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	engine := game.New(gormstore.New(conn), nil)
	commerceSvc := commerce.New(conn)

	stopSweeper := commerceSvc.StartSweeper(
		time.Duration(cfg.OrderSweepIntervalMins)*time.Minute,
		time.Duration(cfg.OrderPendingTimeoutMins)*time.Minute,
	)
	defer stopSweeper()

	srv := server.New(cfg, conn, tokens, engine,
		users.New(conn, tokens), catalog.New(conn), commerceSvc)

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}
	log.Printf("qa-game server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
