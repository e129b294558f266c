package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/smearhash-cli/internal/smearhash"
	"github.com/AnyUserName/smearhash-cli/internal/trig"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "smearhash",
	Short: "Decode smearhash strings into placeholder images",
	Long: `smearhash turns compact base-83 hashes into smooth placeholder images.

A hash carries an average colour plus up to 9x9 low-frequency cosine
components.  Decode one hash to an image, inspect its header, or render
whole frame lists into content-addressed files with a manifest.`,
	Version:      version,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"smearhash %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[smearhash] "+format+"\n", args...)
	}
}

// decodeFlags are the decode knobs shared by decode and batch.
type decodeFlags struct {
	punch     float64
	kernel    string
	unchecked bool
	workers   int
}

func (f *decodeFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.punch, "punch", 0, "AC contrast multiplier (0 = profile default)")
	cmd.Flags().StringVar(&f.kernel, "kernel", "approx", "cosine evaluation: approx or exact")
	cmd.Flags().BoolVar(&f.unchecked, "unchecked", false, "skip hash validation (trusted input only)")
	cmd.Flags().IntVar(&f.workers, "decode-workers", 0, "goroutines per decode (0 = NumCPU)")
}

func (f *decodeFlags) options() (smearhash.Options, error) {
	k, err := trig.ParseKernel(f.kernel)
	if err != nil {
		return smearhash.Options{}, err
	}
	opts := smearhash.DefaultOptions()
	opts.Punch = f.punch
	opts.Kernel = k
	opts.Unchecked = f.unchecked
	if f.workers > 0 {
		opts.Workers = f.workers
	}
	return opts, nil
}
