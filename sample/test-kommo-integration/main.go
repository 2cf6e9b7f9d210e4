package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/xavierca1/ligue-leadbot/internal/config"
	"github.com/xavierca1/ligue-leadbot/internal/entity"
	"github.com/xavierca1/ligue-leadbot/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-leadbot/internal/infra/logger"
)

// Pushes one qualified test lead to the configured Kommo account.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Kommo.APIToken == "" {
		log.Fatal("KOMMO_API_TOKEN must be set")
	}

	client := kommo.NewClient(cfg.Kommo, logger.New(cfg.Log))

	contact := entity.Contact{
		ID:           "sample-contact",
		FirstName:    "Max",
		WhatsAppE164: "+4915112345678",
	}
	conv := entity.Conversation{
		ID:                 "sample-conversation",
		ContactID:          contact.ID,
		Status:             entity.StatusQualified,
		MonthlyLeadsBucket: entity.LeadBucket100To300,
	}

	fmt.Println("Creating qualified lead in Kommo...")
	fmt.Printf("   Name:    %s\n", contact.FirstName)
	fmt.Printf("   Phone:   %s\n", contact.WhatsAppE164)
	fmt.Printf("   Bucket:  %s\n\n", conv.MonthlyLeadsBucket)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.SyncQualifiedLead(ctx, contact, conv); err != nil {
		log.Fatalf("kommo sync failed: %v", err)
	}

	accountID := os.Getenv("KOMMO_ACCOUNT_ID")
	if accountID == "" {
		accountID = "liguemedicina"
	}
	fmt.Printf("Lead created. Pipeline: https://%s.kommo.com/leads/pipeline\n", accountID)
}
