package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"huskers-schedule/internal/model"
)

// testdataDir is the scraper fixture directory, resolved before any test
// changes the working directory.
func testdataDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.Abs("../scraper/testdata")
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestScrapeCommand(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join(testdataDir(t), "schedule.html"))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fixture)
	}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "schedule.json")

	var stdout, stderr bytes.Buffer
	cmd := NewScrapeCmd()
	cmd.SetArgs([]string{"--url", server.URL, "--out", out, "--log-format", "json"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	if code := run(cmd, &stderr); code != ExitSuccess {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var schedule model.Schedule
	if err := json.Unmarshal(data, &schedule); err != nil {
		t.Fatal(err)
	}
	if schedule.SourceURL != server.URL {
		t.Errorf("SourceURL = %q, want %q", schedule.SourceURL, server.URL)
	}
	if len(schedule.Games) != 3 {
		t.Errorf("got %d games, want 3", len(schedule.Games))
	}
	if !strings.Contains(stdout.String(), "OPPONENT") {
		t.Errorf("stdout should contain the games table:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), `"msg":"wrote schedule"`) {
		t.Errorf("stderr should contain JSON logs:\n%s", stderr.String())
	}
}

func TestScrapeCommandCache(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join(testdataDir(t), "schedule.html"))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	t.Chdir(t.TempDir())
	var mu sync.Mutex
	counts := map[string]int{}
	hits := func(path string) int {
		mu.Lock()
		defer mu.Unlock()
		return counts[path]
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		counts[r.URL.Path]++
		mu.Unlock()
		w.Write(fixture)
	}))
	defer server.Close()

	scrape := func(args ...string) {
		t.Helper()
		var stderr bytes.Buffer
		cmd := NewScrapeCmd()
		cmd.SetArgs(append([]string{"--cache-ttl", "1h", "--out", "schedule.json"}, args...))
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&stderr)
		if code := run(cmd, &stderr); code != ExitSuccess {
			t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
		}
	}

	scrape("--url", server.URL+"/schedule")
	scrape("--url", server.URL+"/schedule")
	if hits("/schedule") != 1 {
		t.Errorf("repeat run fetched the page again: %d hits", hits("/schedule"))
	}

	scrape("--url", server.URL+"/schedule/2024")
	if hits("/schedule/2024") != 1 {
		t.Errorf("another URL was served from cache: %d hits", hits("/schedule/2024"))
	}

	data, err := os.ReadFile("schedule.json")
	if err != nil {
		t.Fatal(err)
	}
	var schedule model.Schedule
	if err := json.Unmarshal(data, &schedule); err != nil {
		t.Fatal(err)
	}
	if schedule.SourceURL != server.URL+"/schedule/2024" {
		t.Errorf("SourceURL = %q", schedule.SourceURL)
	}

	scrape("--url", server.URL+"/schedule", "--refresh")
	if hits("/schedule") != 2 {
		t.Errorf("--refresh should refetch: %d hits", hits("/schedule"))
	}
}

func TestScrapeCommandUnknownStrategy(t *testing.T) {
	var stderr bytes.Buffer
	cmd := NewScrapeCmd()
	cmd.SetArgs([]string{"--strategy", "telnet", "--out", filepath.Join(t.TempDir(), "x.json")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)

	if code := run(cmd, &stderr); code != ExitError {
		t.Fatalf("exit code %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr.String(), "Error: scrape.strategy") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestManifestCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := os.MkdirAll("data", 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll("stadiums", 0755); err != nil {
		t.Fatal(err)
	}
	input := `{"source_url": "u", "scraped_at": "2025-09-01T12:00:00Z", "games": [
		{"location": "Lincoln, Neb. / Memorial Stadium", "opponent_name": "Iowa"},
		{"location": "Columbus, Ohio / Ohio Stadium", "opponent_name": "Ohio State"}
	]}`
	if err := os.WriteFile("data/huskers_schedule.json", []byte(input), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("stadiums/memorial-stadium-lincoln-neb.jpg", []byte("jpg"), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	cmd := NewManifestCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	if code := run(cmd, &stderr); code != ExitSuccess {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}

	for _, path := range []string{"data/stadium_manifest.json", "STADIUMS.md"} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not written: %v", path, err)
		}
	}
	for _, want := range []string{"ohio-stadium-columbus-ohio", "missing", "memorial-stadium-lincoln-neb", "found"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestManifestCommandMissingInput(t *testing.T) {
	t.Chdir(t.TempDir())

	var stderr bytes.Buffer
	cmd := NewManifestCmd()
	cmd.SetArgs([]string{"--input", "data/nothing.json"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)

	if code := run(cmd, &stderr); code != ExitError {
		t.Fatalf("exit code %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr.String(), "Error: input file not found: data/nothing.json") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if _, err := os.Stat("STADIUMS.md"); !os.IsNotExist(err) {
		t.Error("STADIUMS.md written despite missing input")
	}
}

func TestIngestCommandRequiresProject(t *testing.T) {
	t.Setenv("GCP_PROJECT_ID", "")

	var stderr bytes.Buffer
	cmd := NewIngestCmd()
	cmd.SetArgs([]string{"--input", filepath.Join(t.TempDir(), "schedule.json")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)

	if code := run(cmd, &stderr); code != ExitError {
		t.Fatalf("exit code %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr.String(), "GCP project is required") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRenderCounts(t *testing.T) {
	out := renderCounts(map[string]int{"huskers-football": 12, "archive": 3})

	archive := strings.Index(out, "archive")
	huskers := strings.Index(out, "huskers-football")
	total := strings.Index(out, "TOTAL")
	if archive < 0 || huskers < archive || total < huskers {
		t.Errorf("rows out of order:\n%s", out)
	}
	if !strings.Contains(out, "15") {
		t.Errorf("total missing:\n%s", out)
	}
}
