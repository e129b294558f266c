package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/smearhash-cli/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a rendered placeholder directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	m, _, err := manifest.Read(args[0])
	if err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), m)
	return nil
}

func printStats(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(w, "  Profile:          %s\n", m.Profile)
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:          %d\n", m.BuildInfo.Workers)
		fmt.Fprintf(w, "  Kernel:           %s\n", m.BuildInfo.Kernel)
	}
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Total entries:    %d\n", s.TotalEntries)
	fmt.Fprintf(w, "  Unique renders:   %d\n", s.UniqueRenders)
	fmt.Fprintf(w, "  Total variants:   %d\n", s.TotalVariants)
	fmt.Fprintf(w, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.Failed > 0 {
		fmt.Fprintf(w, "  Failed:           %d\n", s.Failed)
	}
	fmt.Fprintln(w)

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, e := range m.Entries {
		for _, v := range e.Variants {
			fs := formatStats[v.Format]
			fs.count++
			fs.bytes += v.Size
			formatStats[v.Format] = fs
		}
	}

	fmt.Fprintln(w, "  Format breakdown:")
	for _, f := range detectOutputFormats(m) {
		fs := formatStats[f]
		fmt.Fprintf(w, "    %-8s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
	}
	fmt.Fprintln(w)

	// Per-grid breakdown.
	gridStats := map[int]int{}
	for _, e := range m.Entries {
		gridStats[e.Components[0]*e.Components[1]]++
	}
	var sizes []int
	for n := range gridStats {
		sizes = append(sizes, n)
	}
	sort.Ints(sizes)
	fmt.Fprintln(w, "  Component count breakdown:")
	for _, n := range sizes {
		fmt.Fprintf(w, "    %3d  %4d entries\n", n, gridStats[n])
	}
	fmt.Fprintln(w)

	// Warnings.
	var warnings []string
	for key, e := range m.Entries {
		if len(e.Variants) == 0 {
			warnings = append(warnings, fmt.Sprintf("entry %q has no variants", key))
		}
		if e.Punch > 2 {
			warnings = append(warnings, fmt.Sprintf("entry %q uses punch %.2g; contrast may clip", key, e.Punch))
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Fprintf(w, "  Warnings (%d):\n", len(warnings))
		for _, msg := range warnings {
			fmt.Fprintf(w, "    ⚠ %s\n", msg)
		}
		fmt.Fprintln(w)
	}
}
