package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/AnyUserName/smearhash-cli/internal/encoder"
	"github.com/AnyUserName/smearhash-cli/internal/manifest"
	"github.com/AnyUserName/smearhash-cli/internal/profile"
	"github.com/AnyUserName/smearhash-cli/internal/smearhash"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputPath string // list file or directory of lists
	OutputDir string
	Profile   profile.Profile
	// Options is passed to every decode.  Workers inside it parallelises a
	// single decode; Config.Workers bounds concurrent renders.
	Options smearhash.Options
	Workers int
	Quality int
	Verbose bool
}

// Pipeline orchestrates batch rendering.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Quality <= 0 {
		cfg.Quality = 80
	}
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
	}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[smearhash] "+format+"\n", args...)
	}
}

// Run executes the full batch and returns the manifest.  Entries that
// fail are reported and counted; Run itself fails only when every entry
// does.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	p.logf("%s", p.registry.String())

	// Step 1: Read hash lists.
	sources, err := ScanHashes(p.cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no hashes found in %s", p.cfg.InputPath)
	}

	formats, unknown := p.registry.ResolveFormats(p.cfg.Profile.Formats)
	for _, f := range unknown {
		fmt.Fprintf(os.Stderr, "[smearhash] warning: unknown format %q ignored\n", f)
	}

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	// Step 2: Render each distinct (hash, size, punch, kernel) once.
	jobs := planJobs(sources, p.cfg)
	p.logf("found %d hashes, %d unique renders", len(sources), len(jobs))

	results := make([]processResult, len(jobs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, j := range jobs {
		wg.Add(1)
		go func(idx int, j job) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			lead := sources[j.members[0]]
			p.logf("rendering: %s", lead.Key)

			results[idx] = processJob(lead, p.cfg, p.registry, formats)

			if results[idx].err == nil {
				p.logf("done: %s (%d variants, %d entries)",
					lead.Key, len(results[idx].entry.Variants), len(j.members))
			}
		}(i, j)
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name)

	var errs []error
	failed, rendered := 0, 0
	for i, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			failed += len(jobs[i].members)
			continue
		}
		rendered++
		for _, idx := range jobs[i].members {
			e := r.entry
			e.Source = sources[idx].Origin()
			e.Hash = sources[idx].Hash
			e.Variants = append([]manifest.Variant(nil), r.entry.Variants...)
			m.Entries[sources[idx].Key] = e
		}
	}

	// Report errors but don't fail the whole batch for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[smearhash] error: %v\n", e)
		}
		if failed == len(sources) {
			return nil, fmt.Errorf("all %d hashes failed to render", failed)
		}
		fmt.Fprintf(os.Stderr, "[smearhash] warning: %d of %d hashes had errors\n",
			failed, len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{
		Workers: p.cfg.Workers,
		Kernel:  p.cfg.Options.Kernel.String(),
	}
	m.Stats.Failed = failed
	m.Stats.UniqueRenders = rendered
	m.ComputeStats()
	return m, nil
}
