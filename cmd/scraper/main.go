package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"go-updash-automation/internal/config"
	"go-updash-automation/internal/notify"
	"go-updash-automation/internal/pipeline"
)

func main() {
	//mode argument: messages (default), jobs, active-chat
	mode := "messages"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Endpoint: %s, mode: %s", cfg.ChromeEndpoint, mode)

	runner := pipeline.New(cfg)

	//optional telegram notifications
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		bot, err := notify.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Failed to init Telegram Bot: %v. Continuing without notifications.", err)
		} else {
			log.Println("🤖 Telegram Bot initialized.")
			runner.WithNotifier(bot)
		}
	}

	//setup context with timeout = 10 mins
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Println("🚀 Starting extraction run...")
	result, err := runner.Run(ctx, mode)

	//always emit the structured payload, even for fatal setup failures,
	//so the caller can use the error field instead of just the exit code
	out, marshalErr := json.MarshalIndent(result, "", "  ")
	if marshalErr != nil {
		log.Fatalf("❌ Could not marshal run result: %v", marshalErr)
	}
	fmt.Println(string(out))

	if err != nil {
		log.Printf("❌ Run failed: %v", err)
		os.Exit(1)
	}

	log.Printf("🏁 Run finished: %d records, %d new, %d delivered.", len(result.Records), result.NewRecords, result.Delivered)
}
