package cache

import "strings"

// Keyer generates cache keys.
type Keyer interface {
	// ScanKey identifies the layout scanned from a marker set.
	ScanKey(region, markersHash string, opts ScanKeyOpts) string

	// ArtifactKey identifies a rendering of a scanned layout.
	ArtifactKey(scanHash string, opts ArtifactKeyOpts) string
}

// ScanKeyOpts are the scan parameters that affect the layout, plus the
// region extent that scales the grid.
type ScanKeyOpts struct {
	Distance float64 `json:"distance"`
	Angle    float64 `json:"angle"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// ArtifactKeyOpts are the render parameters that affect an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer produces keys of the form "kind:region:hash".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ScanKey generates a key for a scanned layout.
func (DefaultKeyer) ScanKey(region, markersHash string, opts ScanKeyOpts) string {
	return hashKey("scan:"+normalize(region), markersHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(scanHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, scanHash, opts)
}

// normalize lowercases a region name and replaces whitespace, so keys stay
// readable in redis-cli.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}
