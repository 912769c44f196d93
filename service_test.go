package main

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func testService(src SheetSource) *Service {
	return &Service{cfg: testConfig(), source: src, now: fixedNow}
}

func productionSource() *fakeSource {
	return &fakeSource{sheets: map[string][][]string{
		"g-grey": {
			masterRow("500", "Noor Textiles", "Poplin", "1,000"),
			masterRow("501", "Karim Bros", "Twill", "200"),
		},
		"g-cpb": {
			row("15-Feb-2024", "500", "1,200"),
			row("14-Feb-2024", "501", "300"),
		},
		"g-jig": {
			row("15-Feb-2024", "501", "100"),
		},
	}}
}

func TestServiceAnswer(t *testing.T) {
	svc := testService(productionSource())
	ctx := context.Background()

	tests := []struct {
		query string
		wants []string
	}{
		{"help", []string{"Available Commands"}},
		{"today", []string{"DAILY REPORT", "1,300 yds"}},
		{"totall", []string{"FACTORY SUMMARY", "TOTAL DYEING : 1,600 yds"}},
		{"total dyeing", []string{"TOTAL DYEING", "1,600 yds"}},
		{"totall dyeing", []string{"DYEING MONTHLY BREAKDOWN", "Feb-2024"}},
		{"500", []string{"SILL PRODUCTION REPORT", "Noor Textiles", "Extra 200"}},
		{"noor", []string{"PARTY REPORT : NOOR TEXTILES"}},
		{"karim cpb", []string{"Party : KARIM BROS", "Process : CPB", "300 yds"}},
		{"top", []string{"TOP PRODUCTION", "1. NOOR TEXTILES : 1,200 yds", "2. KARIM BROS : 100 yds"}},
		{"cpb per day", []string{"CPB DAILY PRODUCTION", "TOTAL  : 1,500 yds"}},
		{"cpb", []string{"RUNNING MONTH CPB", "1,500 yds"}},
		{"gibberish query", []string{msgUnrecognized}},
		{"", []string{msgUnrecognized}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.query, func(t *testing.T) {
			reply := svc.Answer(ctx, tc.query)
			for _, want := range tc.wants {
				if !strings.Contains(reply, want) {
					t.Errorf("Answer(%q) missing %q:\n%s", tc.query, want, reply)
				}
			}
		})
	}
}

func TestServiceAnswerFetchFailure(t *testing.T) {
	svc := testService(&fakeSource{err: errors.New("export unavailable")})
	reply := svc.Answer(context.Background(), "today")
	if !strings.Contains(reply, "DAILY REPORT") {
		t.Fatalf("fetch failure must still produce a report:\n%s", reply)
	}
	if !strings.Contains(reply, "TOTAL : 0 yds") {
		t.Fatalf("all-zero summary expected on fetch failure:\n%s", reply)
	}
}

type stubInterpreter struct {
	rewrite string
	err     error
	asked   string
}

func (s *stubInterpreter) Rewrite(_ context.Context, question string) (string, error) {
	s.asked = question
	return s.rewrite, s.err
}

func TestServiceAnswerUsesInterpreterFallback(t *testing.T) {
	svc := testService(productionSource())
	stub := &stubInterpreter{rewrite: "total dyeing"}
	svc.interpreter = stub

	reply := svc.Answer(context.Background(), "how much did we dye overall?")
	if stub.asked == "" {
		t.Fatal("interpreter must be consulted for unrecognized queries")
	}
	if !strings.Contains(reply, "TOTAL DYEING") {
		t.Fatalf("rewritten query not applied:\n%s", reply)
	}
}

func TestServiceAnswerInterpreterSkippedOnMatch(t *testing.T) {
	svc := testService(productionSource())
	stub := &stubInterpreter{rewrite: "help"}
	svc.interpreter = stub

	svc.Answer(context.Background(), "totall")
	if stub.asked != "" {
		t.Fatal("interpreter must not run when the cascade already matched")
	}
}

func TestServiceAnswerInterpreterError(t *testing.T) {
	svc := testService(productionSource())
	svc.interpreter = &stubInterpreter{err: errors.New("api down")}

	reply := svc.Answer(context.Background(), "gibberish query")
	if reply != msgUnrecognized {
		t.Fatalf("reply = %q, want fallback message on interpreter error", reply)
	}
}

func TestDailySummary(t *testing.T) {
	svc := testService(productionSource())
	out := svc.DailySummary()
	if !strings.Contains(out, "DAILY REPORT") || !strings.Contains(out, "15-Feb-2024") {
		t.Fatalf("daily summary = %q", out)
	}
}
