package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// SheetSource provides raw rows for one spreadsheet tab. The CSV export
// source addresses tabs by gid, the workbook source by tab title.
type SheetSource interface {
	FetchSheet(gid, title string) ([][]string, error)
}

type csvExportSource struct {
	baseURL       string
	spreadsheetID string
	client        *http.Client
}

func newCSVExportSource(cfg Config) *csvExportSource {
	return &csvExportSource{
		baseURL:       strings.TrimRight(cfg.SheetBaseURL, "/"),
		spreadsheetID: cfg.SpreadsheetID,
		client:        sheetHTTPClient,
	}
}

func (s *csvExportSource) FetchSheet(gid, _ string) ([][]string, error) {
	url := fmt.Sprintf("%s/d/%s/export?format=csv&gid=%s", s.baseURL, s.spreadsheetID, gid)
	resp, err := s.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching sheet gid=%s: %w", gid, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading sheet gid=%s: %w", gid, err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("sheet export gid=%s returned %d", gid, resp.StatusCode)
	}
	return parseCSV(string(body)), nil
}

// workbookSource reads an exported .xlsx copy of the spreadsheet instead of
// the live CSV export. The workbook is reopened per fetch; a snapshot is
// only read once per request anyway.
type workbookSource struct {
	path string
}

func newWorkbookSource(path string) *workbookSource {
	return &workbookSource{path: path}
}

func (s *workbookSource) FetchSheet(_, title string) ([][]string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(title)
	if err != nil {
		return nil, fmt.Errorf("reading sheet '%s': %w", title, err)
	}
	for _, row := range rows {
		for i, c := range row {
			row[i] = strings.TrimSpace(c)
		}
	}
	return rows, nil
}

// Snapshot holds the freshly fetched data rows for one request: the grey
// master sheet plus every configured section, header rows already stripped.
// A snapshot is never mutated after fetchSnapshot returns.
type Snapshot struct {
	Master   [][]string
	Sections map[string][][]string
}

// Rows returns the data rows of one section, nil when the section is
// unknown or its fetch failed.
func (s *Snapshot) Rows(name string) [][]string {
	return s.Sections[name]
}

// fetchSnapshot fetches the master sheet and all sections concurrently and
// waits for every fetch to settle. A failed fetch degrades to an empty
// section; it never aborts the other fetches or the request.
func fetchSnapshot(src SheetSource, cfg Config) *Snapshot {
	snap := &Snapshot{Sections: make(map[string][][]string, len(cfg.Sections))}

	var mu sync.Mutex
	var g errgroup.Group

	g.Go(func() error {
		rows := fetchOrEmpty(src, cfg.Master.GID, cfg.Master.Sheet, "master", cfg.Master.Header)
		mu.Lock()
		snap.Master = rows
		mu.Unlock()
		return nil
	})
	for _, section := range cfg.Sections {
		section := section
		g.Go(func() error {
			rows := fetchOrEmpty(src, section.GID, section.Sheet, section.Name, section.Header)
			mu.Lock()
			snap.Sections[section.Name] = rows
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return snap
}

func fetchOrEmpty(src SheetSource, gid, title, name string, header bool) [][]string {
	rows, err := src.FetchSheet(gid, title)
	if err != nil {
		log.Printf("sheet fetch %s failed: %v", name, err)
		return nil
	}
	if header && len(rows) > 0 {
		rows = rows[1:]
	}
	return rows
}

// Parties lists the distinct party names from the master sheet in first
// encountered order, original casing preserved.
func (s *Snapshot) Parties(master MasterConfig) []string {
	var parties []string
	seen := map[string]bool{}
	for _, row := range s.Master {
		name := strings.TrimSpace(cell(row, master.PartyCol))
		if name == "" {
			continue
		}
		key := normalizeName(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		parties = append(parties, name)
	}
	return parties
}

// normalizeName flattens a party name for matching: lower case, spaces,
// dots and dashes removed.
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", ".", "", "-", "").Replace(s)
}
