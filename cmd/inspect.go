package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/smearhash-cli/internal/smearhash"
)

var averageUnchecked bool

var averageCmd = &cobra.Command{
	Use:   "average <hash>...",
	Short: "Print the average colour of each hash",
	Long: `Prints the average colour stored in each hash as #rrggbb and rgb().
Only the first six characters are read; nothing is synthesised.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAverage,
}

var componentsCmd = &cobra.Command{
	Use:   "components <hash>...",
	Short: "Print the component grid and validity of each hash",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runComponents,
}

func init() {
	averageCmd.Flags().BoolVar(&averageUnchecked, "unchecked", false, "skip hash validation")
	rootCmd.AddCommand(averageCmd, componentsCmd)
}

func runAverage(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, h := range args {
		var (
			c   [3]uint8
			err error
		)
		if averageUnchecked {
			c = smearhash.AverageColorUnchecked(h)
		} else {
			c, err = smearhash.AverageColor(h)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "  ✗ %v\n", err)
			failed++
			continue
		}
		fmt.Fprintf(out, "#%02x%02x%02x  rgb(%d, %d, %d)\n", c[0], c[1], c[2], c[0], c[1], c[2])
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d hashes invalid", failed, len(args))
	}
	return nil
}

func runComponents(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, h := range args {
		nx, ny, err := smearhash.Components(h)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "  ✗ %v\n", err)
			failed++
			continue
		}
		status := "ok"
		if err := smearhash.Validate(h); err != nil {
			failed++
			status = describe(err)
		}
		fmt.Fprintf(out, "%dx%d  length %d/%d  %s\n",
			nx, ny, len(h), smearhash.ExpectedLength(nx, ny), status)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d hashes invalid", failed, len(args))
	}
	return nil
}

// describe names the error kind without repeating the hash.
func describe(err error) string {
	var he *smearhash.HashError
	if !errors.As(err, &he) {
		return err.Error()
	}
	switch {
	case errors.Is(err, smearhash.ErrTruncatedHash):
		return "truncated"
	case errors.Is(err, smearhash.ErrTrailingData):
		return "trailing data"
	case errors.Is(err, smearhash.ErrInvalidCharacter):
		return fmt.Sprintf("invalid character at %d", he.Pos)
	}
	return he.Kind.Error()
}
