// Package pipeline provides the scan and render pipeline for railinfra.
//
// This package implements the complete filter → resolve → build → group →
// render pipeline used by the CLI, the console surface and the HTTP server.
//
// # Architecture
//
// A scan runs four stages over the markers of one region:
//
//  1. Filter: keep single-part "Guide"/"Alt Guide" markers, sorted by ID
//  2. Resolve: find each marker's forward neighbor candidates
//  3. Build: construct the node arena and resolve forward references
//  4. Group: partition the nodes into tracks
//
// [Render] then produces artifacts (text, ascii, dot, svg, json) from the
// scanned layout.
//
// # Usage
//
//	opts := pipeline.Options{Formats: []string{"ascii"}}
//	if err := opts.ValidateAndSetDefaults(); err != nil {
//	    return err
//	}
//	res, err := pipeline.Scan(region, markers, opts)
//	if err != nil {
//	    return err
//	}
//	artifacts, err := pipeline.Render(ctx, res, opts)
//
// A [Runner] adds the artifact cache and observability hooks on top.
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railinfra/pkg/cache"
	"github.com/matzehuels/railinfra/pkg/errors"
	"github.com/matzehuels/railinfra/pkg/layout"
	"github.com/matzehuels/railinfra/pkg/marker"
	"github.com/matzehuels/railinfra/pkg/render/text"
	"github.com/matzehuels/railinfra/pkg/topology"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Console and Server
// =============================================================================

const (
	// DefaultTrackPointDistance is the maximum distance in meters between a
	// marker and its forward neighbor.
	DefaultTrackPointDistance = 12.0

	// DefaultTrackPointAngle is the half-angle in radians of the forward cone.
	DefaultTrackPointAngle = 0.16

	// DefaultGridWidth and DefaultGridHeight size the ascii grid.
	DefaultGridWidth  = text.DefaultWidth
	DefaultGridHeight = text.DefaultHeight
)

// Format constants for output formats.
const (
	FormatText  = "text"
	FormatASCII = "ascii"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatJSON  = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText:  true,
	FormatASCII: true,
	FormatDOT:   true,
	FormatSVG:   true,
	FormatJSON:  true,
}

// FormatExtensions maps formats to output file extensions.
var FormatExtensions = map[string]string{
	FormatText:  ".txt",
	FormatASCII: ".ascii.txt",
	FormatDOT:   ".dot",
	FormatSVG:   ".svg",
	FormatJSON:  ".json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Scan options
	TrackPointDistance float64 `json:"track_point_distance,omitempty"`
	TrackPointAngle    float64 `json:"track_point_angle,omitempty"`

	// Render options
	GridWidth  int      `json:"grid_width,omitempty"`
	GridHeight int      `json:"grid_height,omitempty"`
	Formats    []string `json:"formats,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"` // node-link labels carry tag and position
	Refresh    bool     `json:"refresh,omitempty"`  // bypass the artifact cache

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result is a completed scan of one region.
type Result struct {
	// Region is the scanned region.
	Region marker.Region

	// Graph is the node arena built from the eligible markers.
	Graph *topology.Graph

	// Layout partitions Graph into tracks.
	Layout *layout.Layout

	// MarkersHash is the content hash of the eligible markers.
	MarkersHash string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains scan statistics.
type Stats struct {
	Markers   int // markers offered by the source
	Eligible  int // markers passing the filter
	Tracks    int
	ScanTime  time.Duration
	ScannedAt time.Time
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: text, ascii, dot, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateParams checks the neighbor search thresholds: a positive distance
// and an angle in (0, π].
func ValidateParams(distance, angle float64) error {
	if !(distance > 0) || math.IsInf(distance, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "TrackPointDistance must be positive, got %v", distance)
	}
	if !(angle > 0) || angle > math.Pi {
		return errors.New(errors.ErrCodeInvalidConfig, "TrackPointAngle must be in (0, π], got %v", angle)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero fields with defaults.
func (o *Options) SetDefaults() {
	if o.TrackPointDistance == 0 {
		o.TrackPointDistance = DefaultTrackPointDistance
	}
	if o.TrackPointAngle == 0 {
		o.TrackPointAngle = DefaultTrackPointAngle
	}
	if o.GridWidth == 0 {
		o.GridWidth = DefaultGridWidth
	}
	if o.GridHeight == 0 {
		o.GridHeight = DefaultGridHeight
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and validates every field.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	if err := ValidateParams(o.TrackPointDistance, o.TrackPointAngle); err != nil {
		return err
	}
	if o.GridWidth < 0 || o.GridHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "grid size must be positive, got %dx%d", o.GridWidth, o.GridHeight)
	}
	return ValidateFormats(o.Formats)
}

// Params returns the neighbor search parameters.
func (o *Options) Params() topology.Params {
	return topology.NewParams(o.TrackPointDistance, o.TrackPointAngle)
}

// ScanKeyOpts returns cache key options for a scan of r.
func (o *Options) ScanKeyOpts(r marker.Region) cache.ScanKeyOpts {
	return cache.ScanKeyOpts{
		Distance: o.TrackPointDistance,
		Angle:    o.TrackPointAngle,
		Width:    r.Width,
		Height:   r.Height,
	}
}

// ArtifactKeyOpts returns cache key options for rendering format. Only the
// options that affect the given format contribute.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatASCII:
		k.Width, k.Height = o.GridWidth, o.GridHeight
	case FormatDOT, FormatSVG:
		k.Detailed = o.Detailed
	}
	return k
}
