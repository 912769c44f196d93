package main

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

var slackMentionRe = regexp.MustCompile(`<@[^>]+>`)

// StartSlackBot runs the Slack transport: direct messages and app mentions
// go through the same query pipeline as the HTTP endpoint, and the reply is
// posted back to the originating channel.
func StartSlackBot(cfg Config, svc *Service, api *slack.Client) error {
	client := socketmode.New(api)

	go func() {
		for evt := range client.Events {
			switch evt.Type {
			case socketmode.EventTypeEventsAPI:
				client.Ack(*evt.Request)
				eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				go handleSlackEvent(svc, api, eventsAPIEvent)
			}
		}
	}()

	log.Println("Slack bot connected via Socket Mode")
	return client.Run()
}

func handleSlackEvent(svc *Service, api *slack.Client, event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}
	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		answerSlackMessage(svc, api, ev.Channel, ev.Text)
	case *slackevents.MessageEvent:
		if !isDirectQuestion(ev) {
			return
		}
		answerSlackMessage(svc, api, ev.Channel, ev.Text)
	}
}

// isDirectQuestion filters message events down to human direct messages.
// Channel chatter, bot posts and edits are not addressed to the bot.
func isDirectQuestion(ev *slackevents.MessageEvent) bool {
	return ev.ChannelType == "im" && ev.BotID == "" && ev.SubType == ""
}

// stripMentions removes <@user> markup so mention text feeds the query
// pipeline the same as a direct message.
func stripMentions(text string) string {
	return strings.TrimSpace(slackMentionRe.ReplaceAllString(text, ""))
}

func answerSlackMessage(svc *Service, api *slack.Client, channel, text string) {
	question := stripMentions(text)
	if question == "" {
		return
	}
	log.Printf("slack question channel=%s text=%q", channel, question)

	reply := svc.Answer(context.Background(), question)
	if _, _, err := api.PostMessage(channel, slack.MsgOptionText(reply, false)); err != nil {
		log.Printf("slack reply error channel=%s: %v", channel, err)
	}
}
