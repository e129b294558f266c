package cmd

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/smearhash-cli/internal/encoder"
	"github.com/AnyUserName/smearhash-cli/internal/profile"
	"github.com/AnyUserName/smearhash-cli/internal/render"
	"github.com/AnyUserName/smearhash-cli/internal/smearhash"
)

var (
	decodeOut     string
	decodeFormat  string
	decodeProfile string
	decodeWidth   int
	decodeHeight  int
	decodeQuality int
	decodeOpts    decodeFlags
)

var decodeCmd = &cobra.Command{
	Use:   "decode <hash>",
	Short: "Decode one hash into an image file",
	Long: `Decodes a hash into a placeholder image.

With --width and --height the hash is decoded directly at that size.
Otherwise the profile decides: decode at a small work size, then scale
to cover the profile's output size and center-crop.

The format defaults to the extension of --out; "-" writes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeOut, "out", "o", "placeholder.png", `output file ("-" = stdout)`)
	decodeCmd.Flags().StringVarP(&decodeFormat, "format", "f", "", "output format (png, jpeg, tiff, bmp, rgba.zst)")
	decodeCmd.Flags().StringVarP(&decodeProfile, "profile", "p", "video-poster", "render profile")
	decodeCmd.Flags().IntVarP(&decodeWidth, "width", "W", 0, "decode width (needs --height)")
	decodeCmd.Flags().IntVarP(&decodeHeight, "height", "H", 0, "decode height (needs --width)")
	decodeCmd.Flags().IntVarP(&decodeQuality, "quality", "q", 80, "quality 1-100")
	decodeOpts.register(decodeCmd)
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	hash := args[0]
	opts, err := decodeOpts.options()
	if err != nil {
		return err
	}

	format := decodeFormat
	if format == "" {
		format = formatFromPath(decodeOut)
	}
	enc := encoder.NewRegistry().Get(format)
	if enc == nil {
		return fmt.Errorf("unknown output format %q", format)
	}

	var img image.Image
	switch {
	case decodeWidth > 0 && decodeHeight > 0:
		if opts.Punch == 0 {
			opts.Punch = 1
		}
		img, err = smearhash.DecodeImage(hash, decodeWidth, decodeHeight, opts)
		logVerbose("decoded %dx%d (punch=%g, kernel=%s)", decodeWidth, decodeHeight, opts.Punch, opts.Kernel)
	case decodeWidth > 0 || decodeHeight > 0:
		return fmt.Errorf("--width and --height must be given together")
	default:
		var res *render.Result
		res, err = render.Render(hash, profile.Get(decodeProfile), opts)
		if err == nil {
			img = res.Image
			logVerbose("profile %s: %dx%d grid, decoded %dx%d, output %dx%d",
				decodeProfile, res.NumX, res.NumY, res.DecodeW, res.DecodeH,
				res.Image.Rect.Dx(), res.Image.Rect.Dy())
		}
	}
	if err != nil {
		return err
	}

	data, err := enc.Encode(img, decodeQuality)
	if err != nil {
		return fmt.Errorf("encode %s: %w", enc.Format(), err)
	}

	if decodeOut == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(decodeOut, data, 0o644); err != nil {
		return err
	}
	logVerbose("wrote %s (%s)", decodeOut, formatBytes(int64(len(data))))
	return nil
}

// formatFromPath guesses the format from a file name, defaulting to png.
func formatFromPath(p string) string {
	base := strings.ToLower(filepath.Base(p))
	if strings.HasSuffix(base, ".rgba.zst") {
		return "rgba.zst"
	}
	if ext := strings.TrimPrefix(filepath.Ext(base), "."); ext != "" {
		return ext
	}
	return "png"
}
