// Package report builds HTML test reports out of the steps logged by tests.
//
// A Report holds one Test per test case. Each Test accumulates timestamped
// entries, optionally carrying a screenshot, and its status is the most
// severe status it has seen. Flush renders everything to index.html (and a
// machine-readable index.json) in the report directory; Archive then moves
// the HTML page to a timestamped name so that consecutive suites do not
// overwrite each other.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const (
	// IndexFile is the name of the page written by Flush.
	IndexFile = "index.html"
	// DataFile is the name of the JSON document written by Flush.
	DataFile = "index.json"

	archiveLayout = "20060102_0304"
)

// Theme selects the colour scheme of the HTML page.
type Theme string

// The valid themes.
const (
	Standard Theme = "standard"
	Dark     Theme = "dark"
)

// Config configures a Report.
type Config struct {
	// Dir is the directory the report is written to. It is created when
	// missing.
	Dir string
	// Title is the document title of the HTML page.
	Title string
	// Theme is the colour scheme. The zero value means Standard.
	Theme Theme
}

// Media is a screenshot attached to an entry.
type Media struct {
	Title  string `json:"title"`
	Base64 string `json:"base64"`
}

// Entry is a single logged step.
type Entry struct {
	Time    time.Time `json:"time"`
	Status  Status    `json:"status"`
	Details string    `json:"details"`
	Media   *Media    `json:"media,omitempty"`
}

// Test is the log of one test case.
type Test struct {
	ID   string
	Name string

	mu      sync.Mutex
	start   time.Time
	end     time.Time
	entries []Entry
	now     func() time.Time
}

// Log appends an entry. details is HTML and is rendered unescaped.
func (t *Test) Log(status Status, details string, media *Media) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Entry{
		Time:    t.now(),
		Status:  status,
		Details: details,
		Media:   media,
	})
	t.end = t.now()
}

// Entries returns a copy of the logged entries.
func (t *Test) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}

// Status returns the most severe status logged so far. A test with no
// entries has passed.
func (t *Test) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return Pass
	}
	s := Info
	for _, e := range t.entries {
		if e.Status.worse(s) {
			s = e.Status
		}
	}
	if s == Info || s == Debug {
		return Pass
	}
	return s
}

// End marks the test finished. Entries logged later move the end again.
func (t *Test) End() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.end = t.now()
}

// Duration returns the time between the creation of the test and its last
// entry.
func (t *Test) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.end.Sub(t.start)
}

// Report collects the tests of a suite.
type Report struct {
	cfg Config

	mu    sync.Mutex
	tests []*Test
	now   func() time.Time
}

// New returns an empty report.
func New(cfg Config) *Report {
	if cfg.Theme == "" {
		cfg.Theme = Standard
	}
	return &Report{cfg: cfg, now: time.Now}
}

// Config returns the configuration of the report.
func (r *Report) Config() Config {
	return r.cfg
}

// CreateTest adds a test to the report.
func (r *Report) CreateTest(name string) *Test {
	now := r.now()
	t := &Test{
		ID:    uuid.New().String(),
		Name:  name,
		start: now,
		end:   now,
		now:   r.now,
	}
	r.mu.Lock()
	r.tests = append(r.tests, t)
	r.mu.Unlock()
	return t
}

// Tests returns the tests in creation order.
func (r *Report) Tests() []*Test {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Test(nil), r.tests...)
}

// Flush writes index.html and index.json to the report directory.
func (r *Report) Flush() error {
	if err := os.MkdirAll(r.cfg.Dir, 0755); err != nil {
		return fmt.Errorf("error creating report directory %q: %w", r.cfg.Dir, err)
	}

	page := r.snapshot()

	htmlPath := filepath.Join(r.cfg.Dir, IndexFile)
	f, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("error creating %q: %w", htmlPath, err)
	}
	if err := pageTemplate.Execute(f, page); err != nil {
		f.Close()
		return fmt.Errorf("error rendering %q: %w", htmlPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing %q: %w", htmlPath, err)
	}

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding report data: %w", err)
	}
	dataPath := filepath.Join(r.cfg.Dir, DataFile)
	if err := os.WriteFile(dataPath, data, 0644); err != nil {
		return fmt.Errorf("error writing %q: %w", dataPath, err)
	}

	glog.V(1).Infof("Flushed report with %d tests to %q", len(page.Tests), htmlPath)
	return nil
}

// separators turns the path separators of subtest names, as in
// "TestLogin/admin", into underscores.
var separators = strings.NewReplacer("/", "_", `\`, "_")

// ArchiveName returns the name Archive gives to the page of the given suite.
// The name stays inside the report directory whatever the suite is called.
func ArchiveName(suite string, now time.Time) string {
	return fmt.Sprintf("%s-%s.html", now.Format(archiveLayout), separators.Replace(suite))
}

// Archive renames the flushed index.html to a name derived from the suite
// name and time, and returns the new path.
func (r *Report) Archive(suite string, now time.Time) (string, error) {
	from := filepath.Join(r.cfg.Dir, IndexFile)
	to := filepath.Join(r.cfg.Dir, ArchiveName(suite, now))
	if err := os.Rename(from, to); err != nil {
		return "", fmt.Errorf("error moving %q to %q: %w", from, to, err)
	}
	glog.Infof("Report saved to %q", to)
	return to, nil
}

type pageData struct {
	Title     string     `json:"title"`
	Theme     Theme      `json:"theme"`
	Generated time.Time  `json:"generated"`
	Summary   summary    `json:"summary"`
	Tests     []testData `json:"tests"`
}

type summary struct {
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

type testData struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	Entries  []Entry       `json:"entries"`
}

func (r *Report) snapshot() pageData {
	p := pageData{
		Title:     r.cfg.Title,
		Theme:     r.cfg.Theme,
		Generated: r.now(),
		Summary:   summary{Counts: make(map[string]int)},
	}
	for _, t := range r.Tests() {
		td := testData{
			ID:       t.ID,
			Name:     t.Name,
			Status:   t.Status(),
			Duration: t.Duration(),
			Entries:  t.Entries(),
		}
		t.mu.Lock()
		td.Start = t.start
		t.mu.Unlock()
		p.Tests = append(p.Tests, td)
		p.Summary.Total++
		p.Summary.Counts[td.Status.String()]++
	}
	return p
}
