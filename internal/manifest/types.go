package manifest

// FileName is the manifest written next to rendered placeholders.
const FileName = "smearhash.manifest.json"

// Manifest is the top-level output of a smearhash batch run.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Entries     map[string]Entry `json:"entries"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures render parameters for diagnostics.
type BuildInfo struct {
	Workers int    `json:"workers"`
	Kernel  string `json:"kernel"` // "approx" or "exact"
}

// Entry describes one input hash and every file rendered from it.
type Entry struct {
	Hash       string    `json:"hash"`
	Source     string    `json:"source,omitempty"` // file:line the hash was read from
	Components [2]int    `json:"components"`       // numX, numY
	AvgColor   [3]uint8  `json:"avg_color"`        // [R,G,B] 0-255
	Punch      float64   `json:"punch"`
	Variants   []Variant `json:"variants"`
}

// Variant is one encoded output of an entry at a specific size and format.
type Variant struct {
	Format string `json:"format"` // "png", "jpeg", "tiff", "bmp", "rgba.zst"
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"` // bytes on disk
	Hash   string `json:"hash"` // first 8 hex chars of xxhash64
	Path   string `json:"path"` // relative to base_path
}

// Stats aggregates batch metrics.
type Stats struct {
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalEntries     int   `json:"total_entries"`
	TotalVariants    int   `json:"total_variants"`
	UniqueRenders    int   `json:"unique_renders"`
	Failed           int   `json:"failed,omitempty"` // entries dropped for bad hashes
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
