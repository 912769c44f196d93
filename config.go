package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SectionConfig describes one process-stage sheet: where to fetch it and
// which columns carry the date, the sill number and the quantity. Column
// layout is fixed per deployment, never inferred from headers.
type SectionConfig struct {
	Name     string   `yaml:"name"`
	GID      string   `yaml:"gid"`
	Sheet    string   `yaml:"sheet"` // tab title, used by the workbook source
	Group    string   `yaml:"group"` // "process", "dyeing" or "finishing"
	DateCol  int      `yaml:"date_col"`
	SillCol  int      `yaml:"sill_col"`
	ValueCol int      `yaml:"value_col"`
	Header   bool     `yaml:"header"`
	Aliases  []string `yaml:"aliases"`
}

// MasterConfig describes the grey-cloth master sheet that maps sill numbers
// to party, quality and nominal lot size.
type MasterConfig struct {
	GID        string `yaml:"gid"`
	Sheet      string `yaml:"sheet"`
	SillCol    int    `yaml:"sill_col"`
	PartyCol   int    `yaml:"party_col"`
	QualityCol int    `yaml:"quality_col"`
	LotCol     int    `yaml:"lot_col"`
	Header     bool   `yaml:"header"`
}

type Config struct {
	ListenAddr    string `yaml:"listen_addr"`
	SpreadsheetID string `yaml:"spreadsheet_id"`
	SheetBaseURL  string `yaml:"sheet_base_url"`
	WorkbookPath  string `yaml:"workbook_path"`

	Master   MasterConfig    `yaml:"master"`
	Sections []SectionConfig `yaml:"sections"`

	SlackBotToken        string `yaml:"slack_bot_token"`
	SlackAppToken        string `yaml:"slack_app_token"`
	ReportChannelID      string `yaml:"report_channel_id"`
	DailySummarySchedule string `yaml:"daily_summary_schedule"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`

	Timezone string `yaml:"timezone"`
	Location *time.Location
}

func LoadConfig() Config {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverride(&cfg.SpreadsheetID, "SPREADSHEET_ID")
	envOverride(&cfg.SheetBaseURL, "SHEET_BASE_URL")
	envOverride(&cfg.WorkbookPath, "WORKBOOK_PATH")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackAppToken, "SLACK_APP_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.DailySummarySchedule, "DAILY_SUMMARY_SCHEDULE")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.Timezone, "TIMEZONE")

	applyDefaults(&cfg)
	if err := validate(cfg); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":3000"
	}
	if cfg.SheetBaseURL == "" {
		cfg.SheetBaseURL = "https://docs.google.com/spreadsheets"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if len(cfg.Sections) == 0 {
		cfg.Master = defaultMaster()
		cfg.Sections = defaultSections()
		if cfg.SpreadsheetID == "" && cfg.WorkbookPath == "" {
			cfg.SpreadsheetID = defaultSpreadsheetID
		}
	}
}

func validate(cfg Config) error {
	if cfg.SpreadsheetID == "" && cfg.WorkbookPath == "" {
		return fmt.Errorf("either spreadsheet_id or workbook_path must be set")
	}
	if len(cfg.Sections) == 0 {
		return fmt.Errorf("at least one section must be configured")
	}
	seen := map[string]bool{}
	for _, s := range cfg.Sections {
		if s.Name == "" {
			return fmt.Errorf("section with empty name")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate section '%s'", s.Name)
		}
		seen[s.Name] = true
		switch s.Group {
		case "process", "dyeing", "finishing":
		default:
			return fmt.Errorf("section '%s': group must be process, dyeing or finishing, got '%s'", s.Name, s.Group)
		}
		if s.ValueCol < 0 || s.DateCol < 0 || s.SillCol < 0 {
			return fmt.Errorf("section '%s': column indexes must be >= 0", s.Name)
		}
	}
	if cfg.DailySummarySchedule != "" && cfg.SlackBotToken == "" {
		return fmt.Errorf("daily_summary_schedule requires slack_bot_token")
	}
	return nil
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

// SlackConfigured reports whether the Slack transport can start.
func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackAppToken != ""
}

// LLMConfigured reports whether the query-interpreter fallback can run.
func (c Config) LLMConfigured() bool {
	return c.AnthropicAPIKey != ""
}

// SectionByName resolves a section from its canonical name or one of its
// aliases.
func (c Config) SectionByName(name string) (SectionConfig, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range c.Sections {
		if s.Name == name {
			return s, true
		}
		for _, alias := range s.Aliases {
			if alias == name {
				return s, true
			}
		}
	}
	return SectionConfig{}, false
}

// SectionsInGroup returns the configured sections of one group, in
// configuration order.
func (c Config) SectionsInGroup(group string) []SectionConfig {
	var out []SectionConfig
	for _, s := range c.Sections {
		if s.Group == group {
			out = append(out, s)
		}
	}
	return out
}

const defaultSpreadsheetID = "17AlSp8QqY3_YmW9bb1W-fMg9m7FFBxtYKXc2Cr9fq3A"

func defaultMaster() MasterConfig {
	return MasterConfig{
		GID:        "1069156463",
		Sheet:      "Grey",
		SillCol:    1,
		PartyCol:   2,
		QualityCol: 3,
		LotCol:     5,
		Header:     true,
	}
}

// defaultSections is the factory's standard deployment: the preparation
// stages, the dyeing machines and the finishing stages, all laid out
// date/sill/quantity on columns 0/1/6 except rolling, which logs quantity
// in column 7.
func defaultSections() []SectionConfig {
	sec := func(name, gid, sheet, group string, valueCol int, aliases ...string) SectionConfig {
		return SectionConfig{
			Name:     name,
			GID:      gid,
			Sheet:    sheet,
			Group:    group,
			DateCol:  0,
			SillCol:  1,
			ValueCol: valueCol,
			Header:   true,
			Aliases:  aliases,
		}
	}
	return []SectionConfig{
		sec("singing", "1204186084", "Singing", "process", 6, "sing"),
		sec("marcerise", "883470384", "Marcerise", "process", 6, "mercerise", "merc"),
		sec("bleach", "1612554044", "Bleach", "process", 6),
		sec("cpb", "809334692", "CPB", "dyeing", 6),
		sec("jet", "1065130625", "Jet", "dyeing", 6),
		sec("jigger", "392149567", "Jigger", "dyeing", 6, "jig"),
		sec("ex_jigger", "843042263", "Ex-Jigger", "dyeing", 6, "exjigger", "ex-jigger"),
		sec("napthol", "1825175747", "Napthol", "dyeing", 6),
		sec("folding", "2051005815", "Folding", "finishing", 6),
		sec("rolling", "1498627234", "Rolling", "finishing", 7, "roll"),
	}
}
