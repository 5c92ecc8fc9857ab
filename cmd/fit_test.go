package cmd

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/surveystream/brfssfit/internal/layout"
)

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	// Reset sticky flags that may persist Changed state across invocations
	if f := fitCmd.Flags(); f != nil {
		for _, name := range []string{"min-year", "report-every", "output", "quiet"} {
			if fl := f.Lookup(name); fl != nil {
				_ = fl.Value.Set(fl.DefValue)
				fl.Changed = false
			}
		}
	}
	fitOutputPath = ""
	fitQuiet = false
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

func writeFixtureArchive(t *testing.T, path string, records []string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	w, err := zw.Create(strings.TrimSuffix(filepath.Base(path), ".ZIP") + ".TXT")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	for _, rec := range records {
		if _, err := w.Write([]byte(rec + "\n")); err != nil {
			t.Fatalf("write record: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
}

// fixtureRecord splices the four fields into a blank 2013-layout record.
func fixtureRecord(t *testing.T, edu, inc, bmi, health string) string {
	t.Helper()
	lay, ok := layout.Lookup(13)
	if !ok {
		t.Fatalf("no 2013 layout")
	}
	rec := []byte(strings.Repeat(" ", lay.BMI.End))
	copy(rec[lay.Education-1:], edu)
	copy(rec[lay.Income.Start-1:], inc)
	copy(rec[lay.BMI.Start-1:], bmi)
	copy(rec[lay.GenHealth-1:], health)
	return string(rec)
}

func TestCLI_FitWritesReport(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	dataDir := filepath.Join(home, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("mkdir data: %v", err)
	}
	records := []string{
		fixtureRecord(t, "4", " 3", "2250", "2"),
		fixtureRecord(t, "6", " 5", "2710", "1"),
		fixtureRecord(t, "3", " 2", "3180", "4"),
		fixtureRecord(t, "2", " 7", "2490", "3"),
		fixtureRecord(t, "5", " 4", "2930", "2"),
	}
	writeFixtureArchive(t, filepath.Join(dataDir, "CDBRFS13.ZIP"), records)

	outPath := filepath.Join(home, "fit.txt")
	runCmd(t, "fit", dataDir, "--quiet", "--output", outPath)

	body, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(body), "n\tb0\tinc\tedu\tbmi\tr^2_adj") {
		t.Fatalf("report missing header row:\n%s", body)
	}
	if !strings.Contains(string(body), "\n5\t") {
		t.Fatalf("report missing observation count:\n%s", body)
	}
	if !strings.HasPrefix(string(body), "run: ") {
		t.Fatalf("report missing run id:\n%s", body)
	}
}

func TestCLI_Layout(t *testing.T) {
	runCmd(t, "layout")
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)
	cfg = nil

	runCmd(t, "config", "set", "min_year", "2012")

	body, err := os.ReadFile(filepath.Join(home, ".brfssfit", "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(body), "min_year: 2012") {
		t.Fatalf("config not persisted:\n%s", body)
	}

	runCmd(t, "config", "show")
}
