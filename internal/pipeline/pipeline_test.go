package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/smearhash-cli/internal/encoder"
	"github.com/AnyUserName/smearhash-cli/internal/manifest"
	"github.com/AnyUserName/smearhash-cli/internal/profile"
	"github.com/AnyUserName/smearhash-cli/internal/smearhash"
	"github.com/AnyUserName/smearhash-cli/internal/trig"
)

const sampleHash = "LEHV6nWB2yk8pyo0adR*.7kCMdnj"

func squareConfig(t *testing.T, input string) Config {
	t.Helper()
	p := profile.Get("square")
	p.Formats = []string{"png", "rgba.zst"}
	return Config{
		InputPath: input,
		OutputDir: filepath.Join(t.TempDir(), "out"),
		Profile:   p,
		Workers:   2,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	list := writeList(t, dir, "clip.txt", sampleHash+"\nposter "+sampleHash+"\n")

	cfg := squareConfig(t, list)
	m, err := New(cfg).Run()
	if err != nil {
		t.Fatal(err)
	}

	if m.Stats.TotalEntries != 2 || m.Stats.UniqueRenders != 1 || m.Stats.Failed != 0 {
		t.Errorf("stats = %+v", m.Stats)
	}
	if m.BuildInfo == nil || m.BuildInfo.Kernel != "approx" || m.BuildInfo.Workers != 2 {
		t.Errorf("build info = %+v", m.BuildInfo)
	}

	a, b := m.Entries["clip/frame-0000"], m.Entries["poster"]
	if a.Hash != sampleHash || a.Components != [2]int{4, 3} || a.AvgColor != [3]uint8{151, 150, 149} {
		t.Errorf("entry = %+v", a)
	}
	if a.Source != "clip.txt:1" || b.Source != "clip.txt:2" {
		t.Errorf("sources = %q, %q", a.Source, b.Source)
	}
	if len(a.Variants) != 2 {
		t.Fatalf("variants = %+v", a.Variants)
	}
	// Duplicates share the files of the first render.
	if a.Variants[0].Path != b.Variants[0].Path {
		t.Errorf("duplicate hash rendered twice: %q vs %q", a.Variants[0].Path, b.Variants[0].Path)
	}

	v := a.Variants[1]
	if v.Format != "rgba.zst" || v.Width != 128 || v.Height != 128 {
		t.Errorf("variant = %+v", v)
	}
	if !strings.HasPrefix(v.Path, "clip/frame-0000.128.128.") || !strings.HasSuffix(v.Path, ".rgba.zst") {
		t.Errorf("path = %q", v.Path)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, v.Path))
	if err != nil {
		t.Fatal(err)
	}
	img, err := encoder.DecodeRGBAZstd(data)
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect.Dx() != 128 || img.Rect.Dy() != 128 {
		t.Errorf("decoded size = %v", img.Rect)
	}

	if errs := manifest.Validate(m, cfg.OutputDir); len(errs) != 0 {
		t.Errorf("manifest invalid: %v", errs)
	}
}

func TestRun_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	list := writeList(t, dir, "clip.txt", sampleHash+"\nLEHV6n\n")

	m, err := New(squareConfig(t, list)).Run()
	if err != nil {
		t.Fatal(err)
	}
	if m.Stats.TotalEntries != 1 || m.Stats.Failed != 1 {
		t.Errorf("stats = %+v", m.Stats)
	}
	if _, ok := m.Entries["clip/frame-0001"]; ok {
		t.Error("failed entry should not be in the manifest")
	}
}

func TestRun_AllFail(t *testing.T) {
	dir := t.TempDir()
	list := writeList(t, dir, "clip.txt", "LEHV6n\n!!!!\n")

	_, err := New(squareConfig(t, list)).Run()
	if err == nil || !strings.Contains(err.Error(), "all 2 hashes failed") {
		t.Errorf("err = %v", err)
	}
}

func TestRun_Unchecked(t *testing.T) {
	dir := t.TempDir()
	list := writeList(t, dir, "clip.txt", "LEHV6n\n")

	cfg := squareConfig(t, list)
	cfg.Options.Unchecked = true
	m, err := New(cfg).Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Entries) != 1 {
		t.Errorf("entries = %d, want 1", len(m.Entries))
	}
}

func TestRun_Empty(t *testing.T) {
	dir := t.TempDir()
	list := writeList(t, dir, "clip.txt", "# nothing\n")
	if _, err := New(squareConfig(t, list)).Run(); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestPlanJobs(t *testing.T) {
	sources := []Source{
		{Key: "a", Hash: sampleHash},
		{Key: "b", Hash: "00%#MwS"},
		{Key: "c", Hash: sampleHash},
	}
	cfg := Config{Profile: profile.Get("square")}

	jobs := planJobs(sources, cfg)
	if len(jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(jobs))
	}
	if len(jobs[0].members) != 2 || jobs[0].members[1] != 2 {
		t.Errorf("first job members = %v", jobs[0].members)
	}

	cfg.Options = smearhash.Options{Kernel: trig.Exact}
	if k := planJobs(sources, cfg)[0].key; k == jobs[0].key {
		t.Error("kernel should change the render key")
	}
}
