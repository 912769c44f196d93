package main

import (
	"context"
	"log"
	"strings"
	"time"
)

// queryInterpreter turns a free-form question into one canonical command
// that the intent cascade understands. Implemented by the LLM fallback.
type queryInterpreter interface {
	Rewrite(ctx context.Context, question string) (string, error)
}

// Service answers production queries. Every request fetches its own sheet
// snapshot, so concurrent requests share no mutable state and replies are
// always computed from fresh data.
type Service struct {
	cfg         Config
	source      SheetSource
	interpreter queryInterpreter
	now         func() time.Time
}

func NewService(cfg Config, source SheetSource) *Service {
	svc := &Service{cfg: cfg, source: source, now: time.Now}
	if cfg.LLMConfigured() {
		svc.interpreter = newLLMInterpreter(cfg)
	}
	return svc
}

// Answer runs the full pipeline: fetch snapshot, resolve intent, aggregate,
// format. It always returns a textual reply, never an error; fetch and
// parse failures degrade inside the pipeline.
func (s *Service) Answer(ctx context.Context, question string) string {
	query := strings.ToLower(strings.TrimSpace(question))
	if query == "" {
		return msgUnrecognized
	}

	now := s.now()
	if s.cfg.Location != nil {
		now = now.In(s.cfg.Location)
	}

	snap := fetchSnapshot(s.source, s.cfg)
	parties := snap.Parties(s.cfg.Master)

	intent := resolveIntent(s.cfg, parties, query, now)
	if intent.Kind == IntentUnrecognized && s.interpreter != nil {
		if rewritten, err := s.interpreter.Rewrite(ctx, question); err != nil {
			log.Printf("query interpreter error: %v", err)
		} else if rewritten != "" {
			log.Printf("query interpreter rewrote %q -> %q", question, rewritten)
			intent = resolveIntent(s.cfg, parties, rewritten, now)
		}
	}

	return s.render(snap, intent, now)
}

func (s *Service) render(snap *Snapshot, intent Intent, now time.Time) string {
	switch intent.Kind {
	case IntentHelp:
		return formatHelp(s.cfg)
	case IntentPerDay:
		series := monthlyPerDay(snap.Rows(intent.Section.Name), intent.Section, now)
		return formatPerDay(series)
	case IntentTotalDyeing:
		return formatTotalDyeing(factoryTotals(snap, s.cfg))
	case IntentGrandTotal:
		return formatFactorySummary(factoryTotals(snap, s.cfg))
	case IntentDyeingBreakdown:
		return formatDyeingBreakdown(dyeingMonthlyBreakdown(snap, s.cfg), s.cfg.SectionsInGroup("dyeing"))
	case IntentDatePerProcess:
		return formatDateProcess(dateProcessDetail(snap, s.cfg, intent.Section, intent.Date))
	case IntentDateSummary:
		return formatDateSummary(intent.Date, dateReport(snap, s.cfg, intent.Date))
	case IntentMonthTotal:
		totals := monthReport(snap, s.cfg, intent.Month, now.Year())
		return formatMonthTotals(intent.Month, now.Year(), totals, intent.DyeingOnly)
	case IntentSillLookup:
		entries := sillReport(snap, s.cfg, intent.Sill)
		return formatSillReport(entries)
	case IntentPartyProcess:
		report, found := partyProcess(snap, s.cfg, intent.Party, intent.Section)
		if !found {
			return msgPartyNotFound
		}
		return formatPartyProcess(report)
	case IntentParty:
		summary, found := partySummary(snap, s.cfg, intent.Party)
		if !found {
			return msgPartyNotFound
		}
		return formatPartySummary(summary)
	case IntentTop:
		return formatTopParties(intent.Date, topParties(snap, s.cfg, intent.Date))
	case IntentProcessTotal:
		total := runningTotal(snap, s.cfg, intent.Section, now)
		return formatProcessTotal(intent.Section, total, now)
	default:
		return msgUnrecognized
	}
}

// DailySummary renders today's date report, used by the scheduler.
func (s *Service) DailySummary() string {
	now := s.now()
	if s.cfg.Location != nil {
		now = now.In(s.cfg.Location)
	}
	snap := fetchSnapshot(s.source, s.cfg)
	today := dateOf(now)
	return formatDateSummary(today, dateReport(snap, s.cfg, today))
}
