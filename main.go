package main

import (
	"log"

	"github.com/slack-go/slack"
)

func main() {
	cfg := LoadConfig()

	var source SheetSource
	if cfg.WorkbookPath != "" {
		log.Printf("Using workbook source %s", cfg.WorkbookPath)
		source = newWorkbookSource(cfg.WorkbookPath)
	} else {
		log.Printf("Using sheet export source spreadsheet=%s sections=%d", cfg.SpreadsheetID, len(cfg.Sections))
		source = newCSVExportSource(cfg)
	}

	svc := NewService(cfg, source)

	if cfg.SlackConfigured() {
		api := slack.New(
			cfg.SlackBotToken,
			slack.OptionAppLevelToken(cfg.SlackAppToken),
		)
		StartDailySummaryScheduler(cfg, svc, api)
		go func() {
			if err := StartSlackBot(cfg, svc, api); err != nil {
				log.Fatalf("Slack bot error: %v", err)
			}
		}()
	}

	log.Println("Starting Factory Report Bot...")
	if err := StartHTTPServer(cfg, svc); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}
