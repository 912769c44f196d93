package main

import (
	"strings"
	"testing"
)

func TestParseRewriteResponse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain json", `{"command": "total dyeing"}`, "total dyeing", false},
		{"fenced json", "```json\n{\"command\": \"15 feb cpb\"}\n```", "15 feb cpb", false},
		{"bare fence", "```\n{\"command\": \"top\"}\n```", "top", false},
		{"lowercased", `{"command": "TOTALL"}`, "totall", false},
		{"empty command", `{"command": ""}`, "", false},
		{"not json", "sure, here is the command", "", true},
		{"too long", `{"command": "` + strings.Repeat("x", 100) + `"}`, "", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseRewriteResponse(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("command = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCommandGuideListsSections(t *testing.T) {
	guide := commandGuide(testConfig())
	for _, want := range []string{"singing", "cpb", "jigger", "ex_jigger", "rolling"} {
		if !strings.Contains(guide, want) {
			t.Errorf("guide missing section %q", want)
		}
	}
	if !strings.Contains(guide, "total dyeing") {
		t.Error("guide missing canonical command forms")
	}
}

func TestNewLLMInterpreterModelDefault(t *testing.T) {
	cfg := testConfig()
	cfg.AnthropicAPIKey = "sk-ant-test"
	if got := newLLMInterpreter(cfg).model; got != defaultAnthropicModel {
		t.Fatalf("model = %q, want default", got)
	}
	cfg.LLMModel = "claude-haiku-4-5"
	if got := newLLMInterpreter(cfg).model; got != "claude-haiku-4-5" {
		t.Fatalf("model = %q, want configured override", got)
	}
}
