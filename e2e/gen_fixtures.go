//go:build ignore

// gen_fixtures writes hash lists for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/smearhash-cli/internal/base83"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(filepath.Join(dir, "shots"), 0o755); err != nil {
		panic(err)
	}

	// Clip: 24 frames of a 4x3 grid whose colour drifts over time.
	var clip []string
	clip = append(clip, "# generated clip, one hash per frame")
	for i := 0; i < 24; i++ {
		phase := float64(i) / 24 * 2 * math.Pi
		avg := rgb(
			128+int(90*math.Sin(phase)),
			128+int(90*math.Sin(phase+2)),
			128+int(90*math.Sin(phase+4)),
		)
		clip = append(clip, makeHash(4, 3, 12, avg, func(k int) int {
			return (k*37 + i*5) % (19 * 19 * 19)
		}))
	}
	writeList(filepath.Join(dir, "clip.txt"), clip)

	// Keyed shots, including a repeated hash so renders are shared.
	hero := makeHash(9, 9, 40, rgb(20, 60, 200), func(k int) int { return (k * 131) % 6859 })
	writeList(filepath.Join(dir, "shots", "hero.txt"), []string{
		"hero " + hero,
		"hero-dup " + hero,
		"flat " + makeHash(1, 1, 0, rgb(200, 200, 200), nil),
		"wide " + makeHash(9, 1, 20, rgb(250, 120, 10), func(k int) int { return 3429 + k }),
	})

	// Broken lines exercise partial failure.
	writeList(filepath.Join(dir, "broken.txt"), []string{
		"truncated " + hero[:12],
		"bad-char " + strings.Repeat("!", 6),
	})

	fmt.Fprintf(os.Stderr, "[gen_fixtures] wrote 3 hash lists in %s\n", dir)
}

func rgb(r, g, b int) int {
	clamp := func(v int) int { return min(max(v, 0), 255) }
	return clamp(r)<<16 | clamp(g)<<8 | clamp(b)
}

// makeHash packs a numX x numY grid.  ac returns the packed value of the
// k-th AC component.
func makeHash(numX, numY, quant, avg int, ac func(k int) int) string {
	var sb strings.Builder
	sb.WriteString(enc((numX-1)+(numY-1)*9, 1))
	sb.WriteString(enc(quant, 1))
	sb.WriteString(enc(avg, 4))
	for k := 0; k < numX*numY-1; k++ {
		sb.WriteString(enc(ac(k), 2))
	}
	return sb.String()
}

func enc(v, n int) string {
	s, err := base83.Encode(v, n)
	if err != nil {
		panic(err)
	}
	return s
}

func writeList(path string, lines []string) {
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		panic(err)
	}
}
