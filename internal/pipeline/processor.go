package pipeline

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/AnyUserName/smearhash-cli/internal/encoder"
	"github.com/AnyUserName/smearhash-cli/internal/hasher"
	"github.com/AnyUserName/smearhash-cli/internal/manifest"
	"github.com/AnyUserName/smearhash-cli/internal/render"
	"github.com/AnyUserName/smearhash-cli/internal/smearhash"
)

// job is one unique render shared by every source with the same render key.
type job struct {
	key     uint64
	members []int // indices into the source slice
}

// processResult holds the outcome of one job.
type processResult struct {
	entry manifest.Entry // Source and Hash are filled per member
	err   error
}

// processJob renders src once and writes one file per requested format.
// Files are named after src.Key: key.w.h.hash.ext.
func processJob(src Source, cfg Config, registry *encoder.Registry, formats []string) processResult {
	var result processResult

	res, err := render.Render(src.Hash, cfg.Profile, cfg.Options)
	if err != nil {
		result.err = fmt.Errorf("%s: %w", src.Origin(), err)
		return result
	}

	avg := smearhash.AverageColorUnchecked(src.Hash)
	if !cfg.Options.Unchecked {
		if avg, err = smearhash.AverageColor(src.Hash); err != nil {
			result.err = fmt.Errorf("%s: %w", src.Origin(), err)
			return result
		}
	}

	result.entry = manifest.Entry{
		Hash:       src.Hash,
		Components: [2]int{res.NumX, res.NumY},
		AvgColor:   avg,
		Punch:      res.Punch,
	}

	keyDir := path.Dir(src.Key)
	if keyDir != "." {
		if err := os.MkdirAll(filepath.Join(cfg.OutputDir, filepath.FromSlash(keyDir)), 0o755); err != nil {
			result.err = fmt.Errorf("mkdir %s: %w", keyDir, err)
			return result
		}
	}

	b := res.Image.Bounds()
	w, h := b.Dx(), b.Dy()
	for _, format := range formats {
		enc := registry.Get(format)
		if enc == nil {
			continue
		}

		data, err := enc.Encode(res.Image, cfg.Quality)
		if err != nil {
			if cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[smearhash] warn: encode %s@%dx%d as %s: %v\n",
					src.Key, w, h, format, err)
			}
			continue
		}

		contentHash := hasher.ContentHash(data, 16)

		fileName := fmt.Sprintf("%s.%d.%d.%s.%s",
			path.Base(src.Key), w, h, contentHash[:8], enc.Extension())
		relPath := path.Join(keyDir, fileName)

		outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(relPath))
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			result.err = fmt.Errorf("write %s: %w", relPath, err)
			return result
		}

		result.entry.Variants = append(result.entry.Variants, manifest.Variant{
			Format: enc.Format(),
			Width:  w,
			Height: h,
			Size:   int64(len(data)),
			Hash:   contentHash[:8],
			Path:   relPath,
		})
	}

	if len(result.entry.Variants) == 0 {
		result.err = fmt.Errorf("%s: no format could be encoded", src.Origin())
	}
	return result
}

// planJobs groups sources by render key, keeping first-seen order.
func planJobs(sources []Source, cfg Config) []job {
	var jobs []job
	index := map[uint64]int{}
	for i, s := range sources {
		k := hasher.RenderKey(s.Hash, cfg.Profile.Width, cfg.Profile.Height,
			effectivePunch(cfg), cfg.Options.Kernel.String())
		if j, ok := index[k]; ok {
			jobs[j].members = append(jobs[j].members, i)
			continue
		}
		index[k] = len(jobs)
		jobs = append(jobs, job{key: k, members: []int{i}})
	}
	return jobs
}

func effectivePunch(cfg Config) float64 {
	if cfg.Options.Punch != 0 {
		return cfg.Options.Punch
	}
	return cfg.Profile.Punch
}
