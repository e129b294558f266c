package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/smearhash-cli/internal/manifest"
	"github.com/AnyUserName/smearhash-cli/internal/pipeline"
	"github.com/AnyUserName/smearhash-cli/internal/profile"
)

var (
	batchOutDir  string
	batchProfile string
	batchWorkers int
	batchQuality int
	batchFormats []string
	batchOpts    decodeFlags
)

var batchCmd = &cobra.Command{
	Use:   "batch <list_or_dir>",
	Short: "Render hash lists into placeholder files + manifest",
	Long: `Reads hash lists (a .txt file, or a directory of .txt/.hash/.lst files),
renders each hash with the chosen profile, encodes every requested format,
and writes a manifest file.

Each line is "<hash>" or "<key> <hash>"; "# " starts a comment.
Output filenames are content-addressed: <key>.<w>.<h>.<hash>.ext`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./smearhash_out", "output directory")
	batchCmd.Flags().StringVarP(&batchProfile, "profile", "p", "video-poster", "render profile ("+strings.Join(profile.Names(), ", ")+")")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel renders (0 = NumCPU)")
	batchCmd.Flags().IntVarP(&batchQuality, "quality", "q", 80, "quality 1-100")
	batchCmd.Flags().StringSliceVar(&batchFormats, "formats", nil, "output formats (overrides profile)")
	batchOpts.register(batchCmd)
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	opts, err := batchOpts.options()
	if err != nil {
		return err
	}
	// Renders already run concurrently; keep each decode on its worker
	// unless asked otherwise.
	if batchOpts.workers <= 0 {
		opts.Workers = 1
	}

	prof := profile.Get(batchProfile)
	if batchFormats != nil {
		prof.Formats = batchFormats
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (%dx%d, formats=%v, kernel=%s)",
		prof.Name, prof.Width, prof.Height, prof.Formats, opts.Kernel)

	p := pipeline.New(pipeline.Config{
		InputPath: absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Options:   opts,
		Workers:   batchWorkers,
		Quality:   batchQuality,
		Verbose:   verbose,
	})

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBatchReport(m, time.Since(start))
	return nil
}

func printBatchReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║            smearhash batch complete              ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Entries:     %d\n", s.TotalEntries)
	fmt.Printf("  Renders:     %d unique\n", s.UniqueRenders)
	fmt.Printf("  Variants:    %d\n", s.TotalVariants)
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	if s.Failed > 0 {
		fmt.Printf("  Failed:      %d entries (bad hashes)\n", s.Failed)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d  (kernel %s)\n", m.BuildInfo.Workers, m.BuildInfo.Kernel)
	}
	fmt.Println()

	// Grid sizes in use, most common first.
	if len(m.Entries) > 0 {
		grids := map[[2]int]int{}
		for _, e := range m.Entries {
			grids[e.Components]++
		}
		type gridCount struct {
			grid  [2]int
			count int
		}
		var items []gridCount
		for g, n := range grids {
			items = append(items, gridCount{g, n})
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].count != items[j].count {
				return items[i].count > items[j].count
			}
			return items[i].grid[0]*10+items[i].grid[1] < items[j].grid[0]*10+items[j].grid[1]
		})
		fmt.Println("  Grids:")
		for _, it := range items {
			fmt.Printf("    %dx%d  %4d entries\n", it.grid[0], it.grid[1], it.count)
		}
		fmt.Println()
	}

	fmt.Printf("  Formats:     %s\n", strings.Join(detectOutputFormats(m), ", "))
	fmt.Println()

	data, _ := json.Marshal(m)
	fmt.Printf("  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}

func detectOutputFormats(m *manifest.Manifest) []string {
	set := map[string]bool{}
	for _, e := range m.Entries {
		for _, v := range e.Variants {
			set[v.Format] = true
		}
	}
	var out []string
	for _, f := range []string{"png", "jpeg", "tiff", "bmp", "rgba.zst"} {
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
