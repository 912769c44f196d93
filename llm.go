package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// llmInterpreter rewrites free-form questions the deterministic cascade
// could not classify into one canonical command. It is an optional
// fallback: when disabled or failing, the caller keeps the unrecognized
// reply.
type llmInterpreter struct {
	client anthropic.Client
	model  string
	guide  string
}

func newLLMInterpreter(cfg Config) *llmInterpreter {
	model := cfg.LLMModel
	if model == "" {
		model = defaultAnthropicModel
	}
	return &llmInterpreter{
		client: anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		model:  model,
		guide:  commandGuide(cfg),
	}
}

// commandGuide lists the canonical command forms for the configured
// sections so the model rewrites into commands this deployment accepts.
func commandGuide(cfg Config) string {
	var names []string
	for _, s := range cfg.Sections {
		names = append(names, s.Name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Known process sections: %s.\n", strings.Join(names, ", "))
	b.WriteString(`Canonical command forms:
"help" | "<section> per day" | "total dyeing" | "totall" | "totall dyeing"
"<day> <month-abbrev>" (e.g. "15 feb") | "<day> <month-abbrev> <section>"
"<month-abbrev> total" | "<month-abbrev> total dyeing"
"<sill number>" (3+ digits) | "<party name>" | "<party name> <section>"
"top" | "top <day> <month-abbrev>" | "<section>"
"today", "yesterday", "aj", "kal", "porshu" work as date words.`)
	return b.String()
}

type rewriteResponse struct {
	Command string `json:"command"`
}

func (l *llmInterpreter) Rewrite(ctx context.Context, question string) (string, error) {
	systemPrompt := "You translate free-form questions about textile factory production into exactly one canonical bot command.\n\n" +
		l.guide +
		"\n\nRespond with strict JSON only: {\"command\": \"...\"}. " +
		"If the question cannot be expressed as one command, respond with {\"command\": \"\"}."

	message, err := l.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(l.model),
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(question)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("llm rewrite response size=%d tokens_in=%d tokens_out=%d",
				len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens)
			return parseRewriteResponse(block.Text)
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}

func parseRewriteResponse(responseText string) (string, error) {
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var parsed rewriteResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
		return "", fmt.Errorf("parsing LLM rewrite response: %w (response: %s)", err, responseText)
	}

	command := strings.ToLower(strings.TrimSpace(parsed.Command))
	if len(command) > 80 {
		return "", fmt.Errorf("LLM rewrite too long: %q", command)
	}
	return command, nil
}
