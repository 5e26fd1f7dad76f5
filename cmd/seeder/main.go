//cmd/seeder/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/unclebandit/sms-gateway/internal/config"
	"github.com/unclebandit/sms-gateway/internal/db"
	"github.com/unclebandit/sms-gateway/internal/model"
	"github.com/unclebandit/sms-gateway/internal/repository"
)

// Seeds a handful of demo messages so the UI has something to show locally.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.Database.URL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		log.Fatal(err)
	}

	repo := &repository.MessageRepository{DB: conn}
	now := time.Now().UTC()

	cost := "0.0040"
	failDetail := "Invalid destination number"
	samples := []model.Message{
		{
			Direction:  model.DirectionOutgoing,
			FromNumber: cfg.Telnyx.FromNumber,
			ToNumber:   "+15551230001",
			Body:       "Welcome to the gateway!",
			Timestamp:  now.Add(-2 * time.Hour).Format(time.RFC3339),
			Status:     model.StatusDelivered,
			Cost:       &cost,
		},
		{
			Direction:  model.DirectionIncoming,
			FromNumber: "+15551230001",
			ToNumber:   cfg.Telnyx.FromNumber,
			Body:       "Thanks, got it.",
			Timestamp:  now.Add(-time.Hour).Format(time.RFC3339),
			Status:     model.StatusReceived,
		},
		{
			Direction:    model.DirectionOutgoing,
			FromNumber:   cfg.Telnyx.FromNumber,
			ToNumber:     "+1555",
			Body:         "This one never made it",
			Timestamp:    now.Add(-30 * time.Minute).Format(time.RFC3339),
			Status:       model.StatusFailed,
			ErrorMessage: &failDetail,
		},
	}

	ctx := context.Background()
	for _, msg := range samples {
		id, err := repo.Insert(ctx, &msg)
		if err != nil {
			log.Fatalf("failed to seed message: %v", err)
		}
		fmt.Printf("Seeded message %d (%s, %s)\n", id, msg.Direction, msg.Status)
	}

	fmt.Println("Database seeding completed successfully!")
}
