package main

import "time"

// testConfig is a trimmed deployment: one preparation stage, two dyeing
// machines and a finishing stage, master sheet without header to keep
// fixtures short.
func testConfig() Config {
	return Config{
		ListenAddr:    ":3000",
		SpreadsheetID: "test-sheet",
		SheetBaseURL:  "https://docs.google.com/spreadsheets",
		Master: MasterConfig{
			GID:        "g-grey",
			Sheet:      "Grey",
			SillCol:    1,
			PartyCol:   2,
			QualityCol: 3,
			LotCol:     5,
		},
		Sections: []SectionConfig{
			{Name: "singing", GID: "g-sing", Sheet: "Singing", Group: "process", DateCol: 0, SillCol: 1, ValueCol: 6, Aliases: []string{"sing"}},
			{Name: "cpb", GID: "g-cpb", Sheet: "CPB", Group: "dyeing", DateCol: 0, SillCol: 1, ValueCol: 6},
			{Name: "jigger", GID: "g-jig", Sheet: "Jigger", Group: "dyeing", DateCol: 0, SillCol: 1, ValueCol: 6, Aliases: []string{"jig"}},
			{Name: "ex_jigger", GID: "g-exjig", Sheet: "Ex-Jigger", Group: "dyeing", DateCol: 0, SillCol: 1, ValueCol: 6, Aliases: []string{"exjigger", "ex-jigger"}},
			{Name: "rolling", GID: "g-roll", Sheet: "Rolling", Group: "finishing", DateCol: 0, SillCol: 1, ValueCol: 7, Aliases: []string{"roll"}},
		},
	}
}

// row builds a section row with date, sill and quantity in the testConfig
// column layout (value in column 6).
func row(date, sill, value string) []string {
	return []string{date, sill, "", "", "", "", value}
}

// masterRow builds a grey-sheet row: sill, party, quality, lot.
func masterRow(sill, party, quality, lot string) []string {
	return []string{"", sill, party, quality, "", lot}
}

func emptySnapshot(cfg Config) *Snapshot {
	snap := &Snapshot{Sections: map[string][][]string{}}
	for _, s := range cfg.Sections {
		snap.Sections[s.Name] = nil
	}
	return snap
}

type fakeSource struct {
	sheets map[string][][]string
	err    error
}

func (f *fakeSource) FetchSheet(gid, _ string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sheets[gid], nil
}

func fixedNow() time.Time {
	return time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC)
}
