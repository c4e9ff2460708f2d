package main

import (
	"context"
	"log"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/aviaquiz/aviaquiz-bot/internal/config"
	"github.com/aviaquiz/aviaquiz-bot/internal/db"
	"github.com/aviaquiz/aviaquiz-bot/internal/service"
	"github.com/aviaquiz/aviaquiz-bot/internal/storage"
	"github.com/aviaquiz/aviaquiz-bot/internal/telegram"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	cfg := config.FromEnv()
	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN environment variable is required")
	}

	ctx := context.Background()
	database, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	questions := storage.NewQuestionStore(database)
	activity := storage.NewActivityStore(database)

	var files []service.SubjectFile
	for _, s := range config.Subjects() {
		files = append(files, service.SubjectFile{
			Subject: s.Key,
			Path:    filepath.Join(cfg.QuestionsDir, s.File),
		})
	}
	service.PreloadSubjects(ctx, questions, files)

	sessions := service.NewSessionManager(questions)

	bot, err := telegram.NewBot(cfg, sessions, activity)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("🤖 Bot is starting...")
	bot.Start()
}
