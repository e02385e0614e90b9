package main

import (
	"log"
	"os"
	"time"

	"ai-journaling-be/internal/constant"
	"ai-journaling-be/internal/model"
	"ai-journaling-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Seeds a demo journal with a couple of finalized entries so the app has
// something to retrieve against. Vectors are not generated here; run
// POST /api/maintenance/v1/reembed-missing once the server is up.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	cfg := struct {
		driver string
		dsn    string
	}{
		driver: getEnv("DB_DRIVER", "sqlite"),
		dsn:    getEnv("DB_DSN", "journal.db"),
	}

	db, err := database.NewGormDB(cfg.driver, cfg.dsn)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		return
	}
	db.Logger = db.Logger.LogMode(logger.Silent)

	color.Cyan("Starting demo journal seeder")

	if err := db.AutoMigrate(&model.Journal{}, &model.Entry{}, &model.Message{}, &model.EntryEmbedding{}); err != nil {
		color.Red("Migration failed: %v", err)
		return
	}

	journalId := seedJournal(db)
	seedEntry(db, journalId,
		"You ran your first 10k and felt proud despite sore legs.",
		[]seedMessage{
			{constant.MessageRoleAssistant, constant.EntryGreetingMessage},
			{constant.MessageRoleUser, "I ran my first 10k today. My legs are killing me but I did it."},
			{constant.MessageRoleAssistant, "That is a real milestone. How did you feel crossing the finish line?"},
			{constant.MessageRoleUser, "Honestly? Proud. I almost quit at kilometer seven."},
		},
		-48*time.Hour,
	)
	seedEntry(db, journalId,
		"You were anxious about tomorrow's presentation but prepared your notes.",
		[]seedMessage{
			{constant.MessageRoleAssistant, constant.EntryGreetingMessage},
			{constant.MessageRoleUser, "Big presentation tomorrow. I keep rehearsing the opening in my head."},
			{constant.MessageRoleAssistant, "It sounds like it matters to you. What part feels shakiest?"},
			{constant.MessageRoleUser, "The Q&A. But I wrote out my notes, so at least I'm prepared."},
		},
		-24*time.Hour,
	)

	color.Green("Seeding completed")
	color.Yellow("Run POST /api/maintenance/v1/reembed-missing to generate vectors for the seeded entries")
}

type seedMessage struct {
	role    string
	content string
}

func seedJournal(db *gorm.DB) uuid.UUID {
	journal := model.Journal{
		Id:          uuid.New(),
		Name:        "Demo Journal",
		Description: "Seeded entries for trying out retrieval",
		RagEnabled:  true,
		CreatedAt:   time.Now().Add(-72 * time.Hour),
	}
	if err := db.Create(&journal).Error; err != nil {
		color.Red("Failed to seed journal: %v", err)
		return uuid.Nil
	}
	color.Green("Created journal %s", journal.Name)
	return journal.Id
}

func seedEntry(db *gorm.DB, journalId uuid.UUID, summary string, messages []seedMessage, age time.Duration) {
	createdAt := time.Now().Add(age)
	finalizedAt := createdAt.Add(30 * time.Minute)

	entry := model.Entry{
		Id:          uuid.New(),
		JournalId:   journalId,
		Status:      constant.EntryStatusFinalized,
		Summary:     &summary,
		CreatedAt:   createdAt,
		FinalizedAt: &finalizedAt,
	}
	if err := db.Create(&entry).Error; err != nil {
		color.Red("Failed to seed entry: %v", err)
		return
	}

	for i, msg := range messages {
		row := model.Message{
			Id:        uuid.New(),
			EntryId:   entry.Id,
			Role:      msg.role,
			Content:   msg.content,
			CreatedAt: createdAt.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&row).Error; err != nil {
			color.Red("Failed to seed message: %v", err)
			return
		}
	}

	color.Green("Created finalized entry: %s", summary)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
