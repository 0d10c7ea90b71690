package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/threadline/threadline-backend/internal/config"
	"github.com/threadline/threadline-backend/internal/db"
	"github.com/threadline/threadline-backend/internal/jobs"
	"github.com/threadline/threadline-backend/internal/model"
	"github.com/threadline/threadline-backend/internal/server"
)

var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Warn("config load failed, starting without database")
	}

	srv := server.New(nil, cfg, gitSHA, buildTime)

	port := "8080"
	if cfg != nil && cfg.Port != "" {
		port = cfg.Port
	} else if p := os.Getenv("PORT"); p != "" {
		port = p
	}
	addr := ":" + port

	errCh := make(chan error, 1)

	go func() {
		log.WithField("addr", addr).Info("starting server")
		errCh <- srv.Start(addr)
	}()

	// Attach the database once it is reachable so the server can begin serving
	// health checks immediately.
	go func() {
		if cfg == nil {
			return
		}
		conn, err := db.Connect(cfg)
		if err != nil {
			log.WithError(err).Error("db connect failed")
			return
		}
		if err := conn.AutoMigrate(
			&model.ScoreEvent{},
			&model.UserScoreTotal{},
			&model.ReplyAncestry{},
			&model.ReplyClassification{},
			&model.UserModerationStat{},
			&model.UserLoginStreak{},
			&model.Post{},
			&model.Reply{},
			&model.Report{},
		); err != nil {
			log.WithError(err).Error("auto migrate failed")
		}
		srv.SetDB(conn)

		scheduler := jobs.NewScheduler(srv.StreakService())
		scheduler.Start(context.Background())
	}()

	if err := <-errCh; err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
