package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BotToken     string
	AdminUserIDs []int64

	DBDriver string
	DBDSN    string

	QuestionsDir string
	AnswerDelay  time.Duration

	Debug bool
}

// Subject maps a quiz subject key to its question bank file under
// QuestionsDir. The key doubles as the callback tag suffix.
type Subject struct {
	Key  string
	File string
}

// Subjects returns the configured subjects in menu order.
func Subjects() []Subject {
	return []Subject{
		{Key: "aviation", File: "questions_aviation.json"},
		{Key: "aviation_general", File: "questions_aviation_general.json"},
		{Key: "meteorology", File: "questions_meteorology.json"},
		{Key: "navigation", File: "questions_navigation.json"},
	}
}

func FromEnv() Config {
	return Config{
		BotToken:     os.Getenv("BOT_TOKEN"),
		AdminUserIDs: parseIDs(os.Getenv("ADMIN_USER_IDS")),
		DBDriver:     envOr("DB_DRIVER", "sqlite"),
		DBDSN:        envOr("DB_DSN", ""),
		QuestionsDir: envOr("QUESTIONS_DIR", "."),
		AnswerDelay:  time.Duration(envInt("ANSWER_DELAY_SEC", 2)) * time.Second,
		Debug:        envBool("DEBUG", false),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "yes"
}

func parseIDs(csv string) []int64 {
	var ids []int64
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("config: skipping invalid admin id %q", part)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
