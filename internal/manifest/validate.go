package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/smearhash-cli/internal/hasher"
	"github.com/AnyUserName/smearhash-cli/internal/smearhash"
)

// Validate checks m for internal consistency and that every variant file
// exists under baseDir with its recorded size.  It returns one message
// per problem found.
func Validate(m *Manifest, baseDir string) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	for key, e := range m.Entries {
		if err := smearhash.Validate(e.Hash); err != nil {
			errs = append(errs, fmt.Sprintf("entry %q: %v", key, err))
		} else {
			nx, ny, _ := smearhash.Components(e.Hash)
			if e.Components != [2]int{nx, ny} {
				errs = append(errs, fmt.Sprintf("entry %q: components %v, hash says [%d %d]",
					key, e.Components, nx, ny))
			}
			if avg, _ := smearhash.AverageColor(e.Hash); avg != e.AvgColor {
				errs = append(errs, fmt.Sprintf("entry %q: avg_color %v, hash says %v",
					key, e.AvgColor, avg))
			}
		}

		if len(e.Variants) == 0 {
			errs = append(errs, fmt.Sprintf("entry %q: no variants", key))
		}

		seenPaths := map[string]bool{}
		for i, v := range e.Variants {
			if v.Format == "" {
				errs = append(errs, fmt.Sprintf("entry %q variant[%d]: empty format", key, i))
			}
			if v.Width <= 0 || v.Height <= 0 {
				errs = append(errs, fmt.Sprintf("entry %q variant[%d]: invalid dimensions %dx%d",
					key, i, v.Width, v.Height))
			}
			if v.Hash == "" {
				errs = append(errs, fmt.Sprintf("entry %q variant[%d]: missing hash", key, i))
			}
			if v.Path == "" {
				errs = append(errs, fmt.Sprintf("entry %q variant[%d]: missing path", key, i))
				continue
			}

			if seenPaths[v.Path] {
				errs = append(errs, fmt.Sprintf("entry %q variant[%d]: duplicate path %q", key, i, v.Path))
			}
			seenPaths[v.Path] = true

			full := filepath.Join(baseDir, v.Path)
			info, err := os.Stat(full)
			if err != nil {
				errs = append(errs, fmt.Sprintf("entry %q variant[%d]: file not found: %s", key, i, v.Path))
				continue
			}
			if v.Size > 0 && info.Size() != v.Size {
				errs = append(errs, fmt.Sprintf("entry %q variant[%d]: size mismatch: manifest=%d, disk=%d",
					key, i, v.Size, info.Size()))
			}
			if v.Hash != "" {
				got, err := fileHash(full, len(v.Hash))
				if err != nil {
					errs = append(errs, fmt.Sprintf("entry %q variant[%d]: %v", key, i, err))
				} else if got != v.Hash {
					errs = append(errs, fmt.Sprintf("entry %q variant[%d]: content hash mismatch: manifest=%s, disk=%s",
						key, i, v.Hash, got))
				}
			}
		}
	}

	variantCount := 0
	for _, e := range m.Entries {
		variantCount += len(e.Variants)
	}
	if m.Stats.TotalEntries != len(m.Entries) {
		errs = append(errs, fmt.Sprintf("stats.total_entries mismatch: %d != %d", m.Stats.TotalEntries, len(m.Entries)))
	}
	if m.Stats.TotalVariants != variantCount {
		errs = append(errs, fmt.Sprintf("stats.total_variants mismatch: %d != %d", m.Stats.TotalVariants, variantCount))
	}

	return errs
}

// fileHash streams path through the content hash, truncated to hexLen.
func fileHash(path string, hexLen int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return hasher.ContentHashReader(f, hexLen)
}
