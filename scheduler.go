package main

import (
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"
)

// summaryCronParser accepts standard 5-field cron expressions only, no
// seconds field and no descriptors.
var summaryCronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// StartDailySummaryScheduler posts today's production summary to the report
// channel on a cron schedule. The schedule is a standard 5-field cron
// expression (minute hour day-of-month month day-of-week), e.g. "0 18 * * *"
// for 6pm daily.
func StartDailySummaryScheduler(cfg Config, svc *Service, api *slack.Client) {
	schedule := strings.TrimSpace(cfg.DailySummarySchedule)
	if schedule == "" {
		log.Println("Daily summary disabled (daily_summary_schedule not set)")
		return
	}
	if cfg.ReportChannelID == "" {
		log.Println("Daily summary disabled: report_channel_id not set")
		return
	}

	sched, err := summaryCronParser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid daily_summary_schedule '%s': %v, daily summary disabled", schedule, err)
		return
	}

	log.Printf("Daily summary scheduled (cron: %s) to channel %s", schedule, cfg.ReportChannelID)

	go func() {
		for {
			now := time.Now()
			if cfg.Location != nil {
				now = now.In(cfg.Location)
			}
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next daily summary at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			summary := svc.DailySummary()
			if _, _, postErr := api.PostMessage(cfg.ReportChannelID, slack.MsgOptionText(summary, false)); postErr != nil {
				log.Printf("Daily summary post error: %v", postErr)
			}
		}
	}()
}
