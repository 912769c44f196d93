package main

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

type IntentKind int

const (
	IntentUnrecognized IntentKind = iota
	IntentHelp
	IntentPerDay
	IntentTotalDyeing
	IntentGrandTotal
	IntentDyeingBreakdown
	IntentDatePerProcess
	IntentDateSummary
	IntentMonthTotal
	IntentSillLookup
	IntentPartyProcess
	IntentParty
	IntentTop
	IntentProcessTotal
)

// Intent is the classified form of one query with its extracted
// parameters. Exactly one intent is produced for every input.
type Intent struct {
	Kind       IntentKind
	Date       SheetDate
	Section    SectionConfig
	Party      string
	Sill       string
	Month      time.Month
	DyeingOnly bool
}

type intentContext struct {
	cfg     Config
	query   string // lower-cased, trimmed
	cleaned string // query with all whitespace removed
	parties []string
	now     time.Time
}

type intentRule struct {
	name  string
	match func(*intentContext) (Intent, bool)
}

// intentRules is evaluated strictly in order; the first matching rule wins
// and short-circuits the rest. Several rules can match the same input (a
// party name containing a process keyword, a numeric party name); the
// fixed order IS the disambiguation policy.
var intentRules = []intentRule{
	{"help", matchHelp},
	{"per-day", matchPerDay},
	{"total-dyeing", matchTotalDyeing},
	{"grand-total", matchGrandTotal},
	{"date-process", matchDateProcess},
	{"date-summary", matchDateSummary},
	{"month-total", matchMonthTotal},
	{"sill-lookup", matchSillLookup},
	{"party-process", matchPartyProcess},
	{"party", matchParty},
	{"top", matchTop},
	{"process-total", matchProcessTotal},
}

func resolveIntent(cfg Config, parties []string, query string, now time.Time) Intent {
	ctx := &intentContext{
		cfg:     cfg,
		query:   strings.ToLower(strings.TrimSpace(query)),
		parties: parties,
		now:     now,
	}
	ctx.cleaned = strings.Join(strings.Fields(ctx.query), "")

	for _, rule := range intentRules {
		if intent, ok := rule.match(ctx); ok {
			return intent
		}
	}
	return Intent{Kind: IntentUnrecognized}
}

func matchHelp(ctx *intentContext) (Intent, bool) {
	if ctx.cleaned == "help" {
		return Intent{Kind: IntentHelp}, true
	}
	return Intent{}, false
}

func matchPerDay(ctx *intentContext) (Intent, bool) {
	if !strings.Contains(ctx.cleaned, "perday") {
		return Intent{}, false
	}
	section, ok := findSection(ctx.cfg, ctx.query)
	if !ok {
		return Intent{}, false
	}
	return Intent{Kind: IntentPerDay, Section: section}, true
}

func matchTotalDyeing(ctx *intentContext) (Intent, bool) {
	if ctx.cleaned == "totaldyeing" {
		return Intent{Kind: IntentTotalDyeing}, true
	}
	return Intent{}, false
}

// matchGrandTotal handles the bare total keyword: "totall" (and the
// correctly spelled variant) with no qualifier is the full factory grand
// total; qualified with "dyeing" it becomes the month-bucketed dyeing
// breakdown instead.
func matchGrandTotal(ctx *intentContext) (Intent, bool) {
	hasTotal := false
	hasDyeing := false
	for _, tok := range strings.Fields(ctx.query) {
		switch tok {
		case "total", "totall":
			hasTotal = true
		case "dyeing":
			hasDyeing = true
		default:
			return Intent{}, false
		}
	}
	if !hasTotal {
		return Intent{}, false
	}
	if hasDyeing {
		return Intent{Kind: IntentDyeingBreakdown}, true
	}
	return Intent{Kind: IntentGrandTotal}, true
}

func matchDateProcess(ctx *intentContext) (Intent, bool) {
	date, ok := parseQueryDate(ctx.query, ctx.now)
	if !ok {
		return Intent{}, false
	}
	section, ok := findSection(ctx.cfg, ctx.query)
	if !ok {
		return Intent{}, false
	}
	return Intent{Kind: IntentDatePerProcess, Date: date, Section: section}, true
}

func matchDateSummary(ctx *intentContext) (Intent, bool) {
	// "top kal" carries a date token but belongs to the ranking rule.
	if hasToken(ctx.query, "top") {
		return Intent{}, false
	}
	date, ok := parseQueryDate(ctx.query, ctx.now)
	if !ok {
		return Intent{}, false
	}
	return Intent{Kind: IntentDateSummary, Date: date}, true
}

var monthTokenRe = regexp.MustCompile(`\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\b`)

func matchMonthTotal(ctx *intentContext) (Intent, bool) {
	m := monthTokenRe.FindStringSubmatch(ctx.query)
	if m == nil || !strings.Contains(ctx.query, "total") {
		return Intent{}, false
	}
	return Intent{
		Kind:       IntentMonthTotal,
		Month:      monthIndex[m[1]],
		DyeingOnly: strings.Contains(ctx.query, "dyeing"),
	}, true
}

var sillTokenRe = regexp.MustCompile(`\d{3,}`)

func matchSillLookup(ctx *intentContext) (Intent, bool) {
	if strings.Contains(ctx.query, "total") {
		return Intent{}, false
	}
	m := sillTokenRe.FindString(ctx.query)
	if m == "" {
		return Intent{}, false
	}
	return Intent{Kind: IntentSillLookup, Sill: normalizeSill(m)}, true
}

var partyProcessRe = regexp.MustCompile(`^(.+?)\s+(\S+)$`)

// matchPartyProcess recognizes "<party> <process>": the trailing token must
// be a section keyword and the leading text a known party. This rule is
// deliberately ahead of the bare-party rule so a party followed by a
// process keyword is never swallowed by the party history report.
func matchPartyProcess(ctx *intentContext) (Intent, bool) {
	m := partyProcessRe.FindStringSubmatch(ctx.query)
	if m == nil {
		return Intent{}, false
	}
	section, ok := ctx.cfg.SectionByName(m[2])
	if !ok {
		return Intent{}, false
	}
	party := strings.TrimSpace(m[1])
	if !knownParty(ctx.parties, party) {
		return Intent{}, false
	}
	return Intent{Kind: IntentPartyProcess, Party: party, Section: section}, true
}

func matchParty(ctx *intentContext) (Intent, bool) {
	if len(ctx.query) < 2 || strings.ContainsAny(ctx.query, "0123456789") {
		return Intent{}, false
	}
	if !knownParty(ctx.parties, ctx.query) {
		return Intent{}, false
	}
	return Intent{Kind: IntentParty, Party: ctx.query}, true
}

func matchTop(ctx *intentContext) (Intent, bool) {
	if !hasToken(ctx.query, "top") {
		return Intent{}, false
	}
	date, ok := parseQueryDate(ctx.query, ctx.now)
	if !ok {
		date = dateOf(ctx.now)
	}
	return Intent{Kind: IntentTop, Date: date}, true
}

func matchProcessTotal(ctx *intentContext) (Intent, bool) {
	section, ok := findSection(ctx.cfg, ctx.query)
	if !ok {
		return Intent{}, false
	}
	return Intent{Kind: IntentProcessTotal, Section: section}, true
}

// findSection scans the query for any section name or alias. Longer
// keywords are tried first so "ex-jigger" is not mistaken for "jigger".
func findSection(cfg Config, query string) (SectionConfig, bool) {
	type keyword struct {
		word    string
		section SectionConfig
	}
	var keywords []keyword
	for _, s := range cfg.Sections {
		keywords = append(keywords, keyword{s.Name, s})
		for _, alias := range s.Aliases {
			keywords = append(keywords, keyword{alias, s})
		}
	}
	sort.SliceStable(keywords, func(i, j int) bool { return len(keywords[i].word) > len(keywords[j].word) })
	for _, kw := range keywords {
		if strings.Contains(query, kw.word) {
			return kw.section, true
		}
	}
	return SectionConfig{}, false
}

// hasToken reports whether word appears as a whole token in q, so words
// merely containing it ("stop", "laptop") never trigger keyword rules.
func hasToken(q, word string) bool {
	for _, tok := range strings.Fields(q) {
		if tok == word {
			return true
		}
	}
	return false
}

// knownParty reports whether text matches any master-sheet party by
// normalized containment.
func knownParty(parties []string, text string) bool {
	needle := normalizeName(text)
	if needle == "" {
		return false
	}
	for _, p := range parties {
		if strings.Contains(normalizeName(p), needle) {
			return true
		}
	}
	return false
}
