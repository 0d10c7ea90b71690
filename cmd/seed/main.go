package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/threadline/threadline-backend/internal/config"
	"github.com/threadline/threadline-backend/internal/db"
	"github.com/threadline/threadline-backend/internal/model"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := gdb.AutoMigrate(&model.Post{}, &model.Reply{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	var n int64
	if err := gdb.Model(&model.Post{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		log.Printf("posts already present (%d), skipping seed", n)
		return nil
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		post := &model.Post{AuthorUID: "seed-alice", Title: "Welcome thread", Body: "Introduce yourself here."}
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		parent := &model.Reply{PostID: post.ID, AuthorUID: "seed-bob", Body: "Great to see this community starting up."}
		if err := tx.Create(parent).Error; err != nil {
			return err
		}
		child := &model.Reply{PostID: post.ID, AuthorUID: "seed-carol", ParentReplyID: &parent.ID, Body: "Agreed, looking forward to the discussions."}
		if err := tx.Create(child).Error; err != nil {
			return err
		}
		log.Printf("seeded post %d with a 2-level reply chain", post.ID)
		return nil
	})
}
