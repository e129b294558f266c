package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Source is one hash read from an input list.
type Source struct {
	// Key names the entry in the manifest and prefixes its output files.
	Key string
	// Hash is the smearhash string, untouched.
	Hash string
	// File is the list file, relative to the input root.
	File string
	// Line is the 1-based line the hash was read from.
	Line int
}

// Origin returns file:line for diagnostics.
func (s Source) Origin() string {
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

// listExtensions lists recognized hash list extensions.
var listExtensions = map[string]bool{
	".txt":  true,
	".hash": true,
	".lst":  true,
}

// ScanHashes reads hash lists from input, which is either a single list
// file or a directory walked for list files.
//
// Each non-blank line is "<hash>" or "<key> <hash>".  A line that is "#"
// or starts with "# " is a comment; '#' alone is a valid hash symbol, so
// "#Foo" is read as a hash.  Lines without a key are named
// "<list>/frame-NNNN" by their 0-based position among the list's hashes.
func ScanHashes(input string) ([]Source, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return scanFile(input, filepath.Base(input))
	}

	var sources []Source
	seen := map[string]string{}

	err = filepath.Walk(input, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && p != input {
				return filepath.SkipDir
			}
			return nil
		}
		if !listExtensions[strings.ToLower(filepath.Ext(p))] {
			return nil
		}

		rel, err := filepath.Rel(input, p)
		if err != nil {
			return err
		}
		found, err := scanFile(p, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		for _, s := range found {
			if prev, dup := seen[s.Key]; dup {
				return fmt.Errorf("%s: duplicate key %q (first at %s)", s.Origin(), s.Key, prev)
			}
			seen[s.Key] = s.Origin()
		}
		sources = append(sources, found...)
		return nil
	})

	return sources, err
}

func scanFile(file, rel string) ([]Source, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	prefix := strings.TrimSuffix(rel, path.Ext(rel))
	var sources []Source
	seen := map[string]int{}

	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || text == "#" || strings.HasPrefix(text, "# ") {
			continue
		}

		src := Source{File: rel, Line: line}
		switch fields := strings.Fields(text); len(fields) {
		case 1:
			src.Key = fmt.Sprintf("%s/frame-%04d", prefix, len(sources))
			src.Hash = fields[0]
		case 2:
			key, err := cleanKey(fields[0])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", src.Origin(), err)
			}
			src.Key = key
			src.Hash = fields[1]
		default:
			return nil, fmt.Errorf("%s: want \"<hash>\" or \"<key> <hash>\", got %d fields",
				src.Origin(), len(fields))
		}

		if prev, dup := seen[src.Key]; dup {
			return nil, fmt.Errorf("%s: duplicate key %q (first at line %d)", src.Origin(), src.Key, prev)
		}
		seen[src.Key] = line
		sources = append(sources, src)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}
	return sources, nil
}

// cleanKey rejects keys that would write outside the output directory.
func cleanKey(key string) (string, error) {
	c := path.Clean(filepath.ToSlash(key))
	if c == "." || path.IsAbs(c) || c == ".." || strings.HasPrefix(c, "../") {
		return "", fmt.Errorf("key %q escapes the output directory", key)
	}
	return c, nil
}
