package main

import (
	"strings"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	if cfg.ListenAddr != ":3000" {
		t.Errorf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.SpreadsheetID != defaultSpreadsheetID {
		t.Errorf("spreadsheet id = %q, want factory default", cfg.SpreadsheetID)
	}
	if len(cfg.Sections) != 10 {
		t.Fatalf("default sections = %d, want 10", len(cfg.Sections))
	}
	if cfg.Master.GID == "" {
		t.Error("default master sheet missing")
	}
	if err := validate(cfg); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestApplyDefaultsKeepsExplicitSections(t *testing.T) {
	cfg := testConfig()
	applyDefaults(&cfg)
	if len(cfg.Sections) != 5 {
		t.Fatalf("explicit sections replaced by defaults: %d", len(cfg.Sections))
	}
	if cfg.SpreadsheetID != "test-sheet" {
		t.Errorf("spreadsheet id overwritten: %q", cfg.SpreadsheetID)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no source", func(c *Config) { c.SpreadsheetID = ""; c.WorkbookPath = "" }, "spreadsheet_id or workbook_path"},
		{"workbook only is fine", func(c *Config) { c.SpreadsheetID = ""; c.WorkbookPath = "factory.xlsx" }, ""},
		{"no sections", func(c *Config) { c.Sections = nil }, "at least one section"},
		{"empty name", func(c *Config) { c.Sections[0].Name = "" }, "empty name"},
		{"duplicate name", func(c *Config) { c.Sections[1].Name = c.Sections[0].Name }, "duplicate section"},
		{"bad group", func(c *Config) { c.Sections[0].Group = "washing" }, "group must be"},
		{"negative column", func(c *Config) { c.Sections[0].ValueCol = -1 }, "column indexes"},
		{"schedule without token", func(c *Config) { c.DailySummarySchedule = "0 9 * * *" }, "requires slack_bot_token"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			err := validate(cfg)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := testConfig()
	t.Setenv("LISTEN_ADDR", ":9999")
	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	if cfg.ListenAddr != ":9999" {
		t.Fatalf("listen addr = %q, want env value", cfg.ListenAddr)
	}

	t.Setenv("SPREADSHEET_ID", "")
	envOverride(&cfg.SpreadsheetID, "SPREADSHEET_ID")
	if cfg.SpreadsheetID != "test-sheet" {
		t.Fatalf("empty env var must not override, got %q", cfg.SpreadsheetID)
	}
}

func TestSectionByName(t *testing.T) {
	cfg := testConfig()

	if s, ok := cfg.SectionByName("cpb"); !ok || s.Name != "cpb" {
		t.Fatalf("lookup by name failed: %v %v", s.Name, ok)
	}
	if s, ok := cfg.SectionByName("jig"); !ok || s.Name != "jigger" {
		t.Fatalf("lookup by alias failed: %v %v", s.Name, ok)
	}
	if s, ok := cfg.SectionByName(" CPB "); !ok || s.Name != "cpb" {
		t.Fatalf("lookup must trim and lower: %v %v", s.Name, ok)
	}
	if _, ok := cfg.SectionByName("nope"); ok {
		t.Fatal("unknown name must not resolve")
	}
}

func TestSectionsInGroup(t *testing.T) {
	cfg := testConfig()
	dyeing := cfg.SectionsInGroup("dyeing")
	if len(dyeing) != 3 {
		t.Fatalf("dyeing sections = %d, want 3", len(dyeing))
	}
	if dyeing[0].Name != "cpb" || dyeing[2].Name != "ex_jigger" {
		t.Fatalf("dyeing order = %v, want configuration order", dyeing)
	}
	if got := cfg.SectionsInGroup("washing"); got != nil {
		t.Fatalf("unknown group = %v, want nil", got)
	}
}

func TestSlackAndLLMConfigured(t *testing.T) {
	var cfg Config
	if cfg.SlackConfigured() || cfg.LLMConfigured() {
		t.Fatal("empty config must not report transports configured")
	}
	cfg.SlackBotToken = "xoxb-1"
	if cfg.SlackConfigured() {
		t.Fatal("bot token alone is not enough for socket mode")
	}
	cfg.SlackAppToken = "xapp-1"
	if !cfg.SlackConfigured() {
		t.Fatal("both tokens set must report configured")
	}
	cfg.AnthropicAPIKey = "sk-ant-test"
	if !cfg.LLMConfigured() {
		t.Fatal("api key set must report llm configured")
	}
}
