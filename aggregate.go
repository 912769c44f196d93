package main

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// safeNumber parses a quantity cell, tolerating thousands separators.
// Anything unparseable counts as zero, never as an error.
func safeNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

// normalizeSill strips everything but digits from a sill/lot identifier.
// This normalized key is the only join key across sheets; the join is
// best-effort string equality with no uniqueness guarantee.
func normalizeSill(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type rowPredicate func(row []string) bool

func allRows([]string) bool { return true }

// sumRows folds the value column over rows admitted by pred.
func sumRows(rows [][]string, valueCol int, pred rowPredicate) float64 {
	var total float64
	for _, row := range rows {
		if pred(row) {
			total += safeNumber(cell(row, valueCol))
		}
	}
	return total
}

func byDate(s SectionConfig, target SheetDate) rowPredicate {
	return func(row []string) bool {
		d, ok := normalizeSheetDate(cell(row, s.DateCol))
		return ok && d == target
	}
}

func byMonth(s SectionConfig, month time.Month, year int) rowPredicate {
	return func(row []string) bool {
		d, ok := normalizeSheetDate(cell(row, s.DateCol))
		return ok && d.Month == month && d.Year == year
	}
}

func bySill(s SectionConfig, sill string) rowPredicate {
	return func(row []string) bool {
		return normalizeSill(cell(row, s.SillCol)) == sill
	}
}

// SectionTotal is one section's contribution to a grouped report.
type SectionTotal struct {
	Section SectionConfig
	Qty     float64
}

// FactoryTotals is the fixed shape of every grouped report: per-section
// totals by group, the dyeing subtotal and the process+dyeing grand total.
type FactoryTotals struct {
	Process   []SectionTotal
	Dyeing    []SectionTotal
	Finishing []SectionTotal
	DyeTotal  float64
	Total     float64
}

// groupTotals computes one total per configured section, with the
// predicate chosen per section by pred.
func groupTotals(snap *Snapshot, cfg Config, pred func(SectionConfig) rowPredicate) FactoryTotals {
	var out FactoryTotals
	for _, s := range cfg.Sections {
		qty := sumRows(snap.Rows(s.Name), s.ValueCol, pred(s))
		st := SectionTotal{Section: s, Qty: qty}
		switch s.Group {
		case "process":
			out.Process = append(out.Process, st)
			out.Total += qty
		case "dyeing":
			out.Dyeing = append(out.Dyeing, st)
			out.DyeTotal += qty
			out.Total += qty
		case "finishing":
			out.Finishing = append(out.Finishing, st)
		}
	}
	return out
}

func factoryTotals(snap *Snapshot, cfg Config) FactoryTotals {
	return groupTotals(snap, cfg, func(SectionConfig) rowPredicate { return allRows })
}

func dateReport(snap *Snapshot, cfg Config, date SheetDate) FactoryTotals {
	return groupTotals(snap, cfg, func(s SectionConfig) rowPredicate { return byDate(s, date) })
}

func monthReport(snap *Snapshot, cfg Config, month time.Month, year int) FactoryTotals {
	return groupTotals(snap, cfg, func(s SectionConfig) rowPredicate { return byMonth(s, month, year) })
}

// DayQty is one day of a per-day series.
type DayQty struct {
	Day int
	Qty float64
}

// DaySeries is a section's day-by-day production for the current month up
// to today.
type DaySeries struct {
	Section SectionConfig
	Month   time.Month
	Year    int
	Days    []DayQty
	Total   float64
	Highest float64
	Lowest  float64
}

func monthlyPerDay(rows [][]string, s SectionConfig, now time.Time) DaySeries {
	series := DaySeries{Section: s, Month: now.Month(), Year: now.Year()}
	for day := 1; day <= now.Day(); day++ {
		target := SheetDate{Year: now.Year(), Month: now.Month(), Day: day}
		qty := sumRows(rows, s.ValueCol, byDate(s, target))
		series.Days = append(series.Days, DayQty{Day: day, Qty: qty})
		series.Total += qty
		if day == 1 || qty > series.Highest {
			series.Highest = qty
		}
		if day == 1 || qty < series.Lowest {
			series.Lowest = qty
		}
	}
	return series
}

// MonthBucket is one calendar month of the dyeing breakdown.
type MonthBucket struct {
	Key       string
	Start     time.Time
	BySection map[string]float64
	Total     float64
}

// dyeingMonthlyBreakdown buckets all dyeing rows by calendar month, in
// ascending month order. Zero and negative values are left out of the
// buckets entirely, matching the itemized-line policy.
func dyeingMonthlyBreakdown(snap *Snapshot, cfg Config) []MonthBucket {
	buckets := map[string]*MonthBucket{}
	for _, s := range cfg.SectionsInGroup("dyeing") {
		for _, row := range snap.Rows(s.Name) {
			d, ok := normalizeSheetDate(cell(row, s.DateCol))
			if !ok {
				continue
			}
			val := safeNumber(cell(row, s.ValueCol))
			if val <= 0 {
				continue
			}
			key := d.monthKey()
			b := buckets[key]
			if b == nil {
				b = &MonthBucket{
					Key:       key,
					Start:     time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC),
					BySection: map[string]float64{},
				}
				buckets[key] = b
			}
			b.BySection[s.Name] += val
			b.Total += val
		}
	}
	out := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// masterRecord is one grey-sheet row in joined form.
type masterRecord struct {
	Sill    string
	Party   string
	Quality string
	Lot     float64
}

func masterRecordOf(row []string, m MasterConfig) masterRecord {
	rec := masterRecord{
		Sill:    normalizeSill(cell(row, m.SillCol)),
		Party:   strings.TrimSpace(cell(row, m.PartyCol)),
		Quality: strings.TrimSpace(cell(row, m.QualityCol)),
		Lot:     safeNumber(cell(row, m.LotCol)),
	}
	if rec.Party == "" {
		rec.Party = "N/A"
	}
	if rec.Quality == "" {
		rec.Quality = "N/A"
	}
	return rec
}

// masterBySill returns the first master row carrying the normalized sill.
func masterBySill(snap *Snapshot, m MasterConfig, sill string) (masterRecord, bool) {
	for _, row := range snap.Master {
		if normalizeSill(cell(row, m.SillCol)) == sill {
			return masterRecordOf(row, m), true
		}
	}
	return masterRecord{}, false
}

// SillEntry is the full cross-sheet report for one master row: every
// section summed for that sill, the dyeing subtotal and the lot difference.
// Diff <= 0 means production exceeded the lot ("Extra").
type SillEntry struct {
	masterRecord
	Process   []SectionTotal
	Dyeing    []SectionTotal
	Finishing []SectionTotal
	DyeTotal  float64
	Diff      float64
}

// sillReport joins one sill number across every process sheet. Several
// master rows may share a normalized sill; each produces its own entry, so
// aggregation is "sum over all matches", never "lookup of one record".
func sillReport(snap *Snapshot, cfg Config, sill string) []SillEntry {
	var entries []SillEntry
	for _, row := range snap.Master {
		rec := masterRecordOf(row, cfg.Master)
		if rec.Sill != sill || sill == "" {
			continue
		}
		entry := SillEntry{masterRecord: rec}
		for _, s := range cfg.Sections {
			qty := sumRows(snap.Rows(s.Name), s.ValueCol, bySill(s, sill))
			st := SectionTotal{Section: s, Qty: qty}
			switch s.Group {
			case "process":
				entry.Process = append(entry.Process, st)
			case "dyeing":
				entry.Dyeing = append(entry.Dyeing, st)
				entry.DyeTotal += qty
			case "finishing":
				entry.Finishing = append(entry.Finishing, st)
			}
		}
		entry.Diff = entry.Lot - entry.DyeTotal
		entries = append(entries, entry)
	}
	return entries
}

func sillDyeTotal(snap *Snapshot, cfg Config, sill string) float64 {
	var total float64
	for _, s := range cfg.SectionsInGroup("dyeing") {
		total += sumRows(snap.Rows(s.Name), s.ValueCol, bySill(s, sill))
	}
	return total
}

// PartyEntry is one master-sheet lot of a party's history.
type PartyEntry struct {
	Sill     string
	Quality  string
	Lot      float64
	DyeTotal float64
	Diff     float64
}

// PartySummary is a party's last lots with per-entry Extra/Short status.
// Totals cover every matching master row, not just the shown tail.
type PartySummary struct {
	Party      string
	Entries    []PartyEntry
	TotalCount int
	TotalLot   float64
	TotalDye   float64
}

const partyHistoryLimit = 15

// partySummary matches the query against master-sheet party names by
// normalized containment. A short query can match several parties; rows are
// taken in sheet order and the first match's name labels the report.
func partySummary(snap *Snapshot, cfg Config, query string) (PartySummary, bool) {
	needle := normalizeName(query)
	if needle == "" {
		return PartySummary{}, false
	}

	var matched []masterRecord
	var display string
	for _, row := range snap.Master {
		rec := masterRecordOf(row, cfg.Master)
		if !strings.Contains(normalizeName(cell(row, cfg.Master.PartyCol)), needle) {
			continue
		}
		if display == "" {
			display = rec.Party
		}
		matched = append(matched, rec)
	}
	if len(matched) == 0 {
		return PartySummary{}, false
	}

	summary := PartySummary{Party: display, TotalCount: len(matched)}
	tailStart := 0
	if len(matched) > partyHistoryLimit {
		tailStart = len(matched) - partyHistoryLimit
	}
	for i, rec := range matched {
		dye := sillDyeTotal(snap, cfg, rec.Sill)
		summary.TotalLot += rec.Lot
		summary.TotalDye += dye
		if i < tailStart {
			continue
		}
		summary.Entries = append(summary.Entries, PartyEntry{
			Sill:     rec.Sill,
			Quality:  rec.Quality,
			Lot:      rec.Lot,
			DyeTotal: dye,
			Diff:     rec.Lot - dye,
		})
	}
	return summary, true
}

// SillQty is one itemized line of a party-scoped section breakdown.
type SillQty struct {
	Sill string
	Qty  float64
}

// PartyProcessReport is a party's production through one section, itemized
// per sill. Zero and negative sills are dropped from the lines but still
// counted into Total.
type PartyProcessReport struct {
	Party   string
	Section SectionConfig
	Lines   []SillQty
	Total   float64
}

func partyProcess(snap *Snapshot, cfg Config, query string, section SectionConfig) (PartyProcessReport, bool) {
	needle := normalizeName(query)
	report := PartyProcessReport{Section: section}
	found := false
	for _, row := range snap.Master {
		rec := masterRecordOf(row, cfg.Master)
		if !strings.Contains(normalizeName(cell(row, cfg.Master.PartyCol)), needle) {
			continue
		}
		if !found {
			report.Party = rec.Party
			found = true
		}
		qty := sumRows(snap.Rows(section.Name), section.ValueCol, bySill(section, rec.Sill))
		report.Total += qty
		if qty > 0 {
			report.Lines = append(report.Lines, SillQty{Sill: rec.Sill, Qty: qty})
		}
	}
	return report, found
}

// PartyRank is one entry of a top-production ranking.
type PartyRank struct {
	Party string
	Qty   float64
}

const topRankLimit = 5

// topParties ranks parties by their dyeing output on one date. Parties are
// resolved from the master sheet via the sill join; sorting is stable so
// ties keep first-encounter order.
func topParties(snap *Snapshot, cfg Config, date SheetDate) []PartyRank {
	totals := map[string]float64{}
	var order []string
	for _, s := range cfg.SectionsInGroup("dyeing") {
		for _, row := range snap.Rows(s.Name) {
			d, ok := normalizeSheetDate(cell(row, s.DateCol))
			if !ok || d != date {
				continue
			}
			val := safeNumber(cell(row, s.ValueCol))
			if val <= 0 {
				continue
			}
			sill := normalizeSill(cell(row, s.SillCol))
			rec, ok := masterBySill(snap, cfg.Master, sill)
			if !ok || rec.Party == "N/A" {
				continue
			}
			if _, seen := totals[rec.Party]; !seen {
				order = append(order, rec.Party)
			}
			totals[rec.Party] += val
		}
	}

	ranks := make([]PartyRank, 0, len(order))
	for _, p := range order {
		ranks = append(ranks, PartyRank{Party: p, Qty: totals[p]})
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Qty > ranks[j].Qty })
	if len(ranks) > topRankLimit {
		ranks = ranks[:topRankLimit]
	}
	return ranks
}

// SillDetail is one itemized line of a date+section breakdown.
type SillDetail struct {
	Sill  string
	Party string
	Lot   float64
	Qty   float64
}

// DateProcessDetail itemizes one section's production on one date per sill,
// party and lot joined in from the master sheet.
type DateProcessDetail struct {
	Section SectionConfig
	Date    SheetDate
	Lines   []SillDetail
	Total   float64
}

func dateProcessDetail(snap *Snapshot, cfg Config, section SectionConfig, date SheetDate) DateProcessDetail {
	detail := DateProcessDetail{Section: section, Date: date}
	perSill := map[string]*SillDetail{}
	var order []string

	for _, row := range snap.Rows(section.Name) {
		d, ok := normalizeSheetDate(cell(row, section.DateCol))
		if !ok || d != date {
			continue
		}
		val := safeNumber(cell(row, section.ValueCol))
		detail.Total += val
		if val <= 0 {
			continue
		}
		sill := normalizeSill(cell(row, section.SillCol))
		line := perSill[sill]
		if line == nil {
			rec, found := masterBySill(snap, cfg.Master, sill)
			if !found {
				rec = masterRecord{Sill: sill, Party: "N/A"}
			}
			line = &SillDetail{Sill: sill, Party: rec.Party, Lot: rec.Lot}
			perSill[sill] = line
			order = append(order, sill)
		}
		line.Qty += val
	}

	for _, sill := range order {
		detail.Lines = append(detail.Lines, *perSill[sill])
	}
	return detail
}

// runningTotal is a section's total for the current calendar month.
func runningTotal(snap *Snapshot, cfg Config, section SectionConfig, now time.Time) float64 {
	return sumRows(snap.Rows(section.Name), section.ValueCol, byMonth(section, now.Month(), now.Year()))
}
