package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const reportRule = "----------------------------------"

const (
	msgNoDataForDate   = "No production on this date."
	msgPartyNotFound   = "Party not found."
	msgSillNotFound    = "Sill not found."
	msgNoDyeingData    = "No dyeing data found."
	msgNoTopProduction = "No production found for this date."
	msgUnrecognized    = "Command not recognized. Type help."
)

// qty renders a quantity with locale-style thousands separators, the way
// the factory reads its numbers.
func qty(v float64) string {
	return humanize.Commaf(v)
}

// label is the section's display name in reports.
func (s SectionConfig) label() string {
	if s.Sheet != "" {
		return s.Sheet
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

// extraShort renders the lot difference with its sign convention:
// diff <= 0 means production exceeded the nominal lot ("Extra"), a
// positive diff means the lot is not yet covered ("Short").
func extraShort(diff float64) string {
	name := "Short"
	if diff <= 0 {
		name = "Extra"
		diff = -diff
	}
	return fmt.Sprintf("%s %s", name, qty(diff))
}

func formatHelp(cfg Config) string {
	var b strings.Builder
	b.WriteString("Available Commands:\n")
	for _, s := range cfg.SectionsInGroup("dyeing") {
		fmt.Fprintf(&b, "%s per day\n", s.Name)
	}
	b.WriteString("total dyeing\n")
	b.WriteString("totall\n")
	b.WriteString("15 feb\n")
	b.WriteString("15 feb cpb\n")
	b.WriteString("feb total\n")
	b.WriteString("top\n")
	b.WriteString("12345\n")
	b.WriteString("<party name>\n")
	b.WriteString("<party name> cpb\n")
	return b.String()
}

func formatPerDay(series DaySeries) string {
	monthStart := time.Date(series.Year, series.Month, 1, 0, 0, 0, 0, time.UTC)
	var b strings.Builder
	fmt.Fprintf(&b, "%s DAILY PRODUCTION\n", strings.ToUpper(series.Section.Name))
	fmt.Fprintf(&b, "Month: %s\n%s\n", monthStart.Format("January 2006"), reportRule)
	for _, d := range series.Days {
		fmt.Fprintf(&b, "%02d %s : %s yds\n", d.Day, monthStart.Format("Jan"), qty(d.Qty))
	}
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "Highest: %s yds\n", qty(series.Highest))
	fmt.Fprintf(&b, "Lowest : %s yds\n", qty(series.Lowest))
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "TOTAL  : %s yds\n", qty(series.Total))
	return b.String()
}

func sectionLines(b *strings.Builder, totals []SectionTotal) {
	for _, st := range totals {
		fmt.Fprintf(b, "%-10s: %s\n", st.Section.label(), qty(st.Qty))
	}
}

func formatTotalDyeing(totals FactoryTotals) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TOTAL DYEING\n%s\n", reportRule)
	sectionLines(&b, totals.Dyeing)
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "TOTAL     : %s yds\n", qty(totals.DyeTotal))
	return b.String()
}

func formatFactorySummary(totals FactoryTotals) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FACTORY SUMMARY\n%s\n", reportRule)
	b.WriteString("PROCESS\n")
	sectionLines(&b, totals.Process)
	b.WriteString("\nDYEING\n")
	sectionLines(&b, totals.Dyeing)
	b.WriteString("\n")
	sectionLines(&b, totals.Finishing)
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "TOTAL DYEING : %s yds\n", qty(totals.DyeTotal))
	return b.String()
}

func formatDateSummary(date SheetDate, totals FactoryTotals) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DAILY REPORT\nDATE : %s\n%s\n", date, reportRule)
	b.WriteString("PROCESS\n")
	sectionLines(&b, totals.Process)
	b.WriteString("\nDYEING\n")
	sectionLines(&b, totals.Dyeing)
	b.WriteString("\n")
	sectionLines(&b, totals.Finishing)
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "TOTAL : %s yds\n", qty(totals.Total))
	return b.String()
}

func formatDateProcess(detail DateProcessDetail) string {
	if len(detail.Lines) == 0 && detail.Total == 0 {
		return msgNoDataForDate
	}
	var b strings.Builder
	fmt.Fprintf(&b, "DATE : %s\nPROCESS : %s\n%s\n", detail.Date, strings.ToUpper(detail.Section.Name), reportRule)
	for _, line := range detail.Lines {
		fmt.Fprintf(&b, "%s | %s : %s yds\n", line.Sill, line.Party, qty(line.Qty))
	}
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "TOTAL : %s yds\n", qty(detail.Total))
	return b.String()
}

func formatMonthTotals(month time.Month, year int, totals FactoryTotals, dyeingOnly bool) string {
	header := strings.ToUpper(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("Jan"))
	var b strings.Builder
	if dyeingOnly {
		fmt.Fprintf(&b, "%s DYEING SUMMARY\n%s\n", header, reportRule)
		sectionLines(&b, totals.Dyeing)
		b.WriteString(reportRule + "\n")
		fmt.Fprintf(&b, "TOTAL     : %s yds\n", qty(totals.DyeTotal))
		return b.String()
	}
	fmt.Fprintf(&b, "MONTHLY FACTORY SUMMARY (%s)\n%s\n", header, reportRule)
	b.WriteString("PROCESS\n")
	sectionLines(&b, totals.Process)
	b.WriteString("\nDYEING\n")
	sectionLines(&b, totals.Dyeing)
	b.WriteString("\n")
	sectionLines(&b, totals.Finishing)
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "TOTAL DYEING : %s yds\n", qty(totals.DyeTotal))
	return b.String()
}

func formatDyeingBreakdown(buckets []MonthBucket, sections []SectionConfig) string {
	if len(buckets) == 0 {
		return msgNoDyeingData
	}
	var b strings.Builder
	fmt.Fprintf(&b, "DYEING MONTHLY BREAKDOWN\n%s\n", reportRule)
	for _, bucket := range buckets {
		fmt.Fprintf(&b, "\n%s\n", bucket.Key)
		for _, s := range sections {
			fmt.Fprintf(&b, "  %-10s: %s yds\n", s.label(), qty(bucket.BySection[s.Name]))
		}
		fmt.Fprintf(&b, "  Total     : %s yds\n", qty(bucket.Total))
	}
	return b.String()
}

func formatSillReport(entries []SillEntry) string {
	if len(entries) == 0 {
		return msgSillNotFound
	}
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		var b strings.Builder
		fmt.Fprintf(&b, "Sill : %s\nParty : %s\nQuality : %s\nLot : %s\n", e.Sill, e.Party, e.Quality, qty(e.Lot))
		b.WriteString("\nPROCESS\n")
		sectionLines(&b, e.Process)
		b.WriteString("\nDYEING\n")
		sectionLines(&b, e.Dyeing)
		b.WriteString("\n")
		sectionLines(&b, e.Finishing)
		fmt.Fprintf(&b, "Total Dye : %s\n", qty(e.DyeTotal))
		fmt.Fprintf(&b, "Status : %s yds\n", extraShort(e.Diff))
		blocks = append(blocks, b.String())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SILL PRODUCTION REPORT\n%s\n", reportRule)
	b.WriteString(strings.Join(blocks, "\n"+reportRule+"\n"))
	return b.String()
}

func formatPartySummary(summary PartySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PARTY REPORT : %s\n", strings.ToUpper(summary.Party))
	fmt.Fprintf(&b, "Showing %d of %d\n%s\n", len(summary.Entries), summary.TotalCount, reportRule)
	for _, e := range summary.Entries {
		fmt.Fprintf(&b, "Sill %s | %s | Lot %s | Dye %s | %s yds\n",
			e.Sill, e.Quality, qty(e.Lot), qty(e.DyeTotal), extraShort(e.Diff))
	}
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "TOTAL LOT : %s\n", qty(summary.TotalLot))
	fmt.Fprintf(&b, "TOTAL DYE : %s\n", qty(summary.TotalDye))
	if summary.TotalLot > 0 {
		fmt.Fprintf(&b, "COMPLETION : %.1f %%\n", summary.TotalDye/summary.TotalLot*100)
	}
	return b.String()
}

func formatPartyProcess(report PartyProcessReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Party : %s\nProcess : %s\n%s\n", strings.ToUpper(report.Party), strings.ToUpper(report.Section.Name), reportRule)
	for _, line := range report.Lines {
		fmt.Fprintf(&b, "%s : %s yds\n", line.Sill, qty(line.Qty))
	}
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "TOTAL : %s yds\n", qty(report.Total))
	return b.String()
}

func formatTopParties(date SheetDate, ranks []PartyRank) string {
	if len(ranks) == 0 {
		return msgNoTopProduction
	}
	var b strings.Builder
	fmt.Fprintf(&b, "TOP PRODUCTION (%s)\n%s\n", date, reportRule)
	for i, r := range ranks {
		fmt.Fprintf(&b, "%d. %s : %s yds\n", i+1, strings.ToUpper(r.Party), qty(r.Qty))
	}
	return b.String()
}

func formatProcessTotal(section SectionConfig, total float64, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "RUNNING MONTH %s\n%s\n", strings.ToUpper(section.Name), reportRule)
	fmt.Fprintf(&b, "Month : %s\n", now.Format("January 2006"))
	fmt.Fprintf(&b, "TOTAL : %s yds\n", qty(total))
	return b.String()
}
