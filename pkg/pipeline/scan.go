package pipeline

import (
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/matzehuels/railinfra/pkg/cache"
	"github.com/matzehuels/railinfra/pkg/errors"
	"github.com/matzehuels/railinfra/pkg/layout"
	"github.com/matzehuels/railinfra/pkg/marker"
	"github.com/matzehuels/railinfra/pkg/topology"
)

// Scan infers the track layout of region from ms. Options must have been
// validated.
//
// Markers without a region are assigned r. A Build failure aborts the scan;
// the error carries ErrCodeUnresolvedReference or ErrCodePlaceholderLeak.
func Scan(r marker.Region, ms []marker.Marker, opts Options) (*Result, error) {
	opts.SetDefaults()
	logger := opts.Logger
	start := time.Now()

	eligible := marker.Filter(ms)
	region := r
	for i := range eligible {
		if eligible[i].Region == nil {
			eligible[i].Region = &region
		}
	}
	logger.Debug("filtered markers", "region", r.Name, "total", len(ms), "eligible", len(eligible))

	cands := topology.Resolve(eligible, opts.Params(), logger)
	g, err := topology.Build(eligible, cands)
	if err != nil {
		return nil, buildError(r.Name, err)
	}
	l := layout.Build(g)

	res := &Result{
		Region:      r,
		Graph:       g,
		Layout:      l,
		MarkersHash: HashMarkers(eligible),
		Stats: Stats{
			Markers:   len(ms),
			Eligible:  len(eligible),
			Tracks:    l.Len(),
			ScanTime:  time.Since(start),
			ScannedAt: start,
		},
	}
	logger.Debug("scanned region",
		"region", r.Name,
		"nodes", g.Len(),
		"tracks", l.Len(),
		"duration", res.Stats.ScanTime)
	return res, nil
}

func buildError(region string, err error) error {
	switch {
	case stderrors.Is(err, topology.ErrPlaceholderLeak):
		return errors.Wrap(errors.ErrCodePlaceholderLeak, err, "scan region %q", region)
	case stderrors.Is(err, topology.ErrNilMarker):
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "scan region %q", region)
	case stderrors.Is(err, topology.ErrUnresolvedReference):
		return errors.Wrap(errors.ErrCodeUnresolvedReference, err, "scan region %q", region)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "scan region %q", region)
}

// hashedMarker is the part of a marker that reaches a rendered artifact.
type hashedMarker struct {
	ID          string     `json:"id"`
	Tag         string     `json:"tag"`
	Description string     `json:"d,omitempty"`
	Position    [3]float64 `json:"p"`
	Rotation    [4]float64 `json:"r"`
}

// HashMarkers returns the content hash of ms in the given order. Pass the
// output of marker.Filter for a canonical hash.
func HashMarkers(ms []marker.Marker) string {
	hm := make([]hashedMarker, len(ms))
	for i, m := range ms {
		hm[i] = hashedMarker{
			ID:          m.ID.String(),
			Tag:         m.Tag,
			Description: m.Description,
			Position:    [3]float64{m.Position.X, m.Position.Y, m.Position.Z},
			Rotation:    [4]float64{m.Rotation.Imag, m.Rotation.Jmag, m.Rotation.Kmag, m.Rotation.Real},
		}
	}
	data, _ := json.Marshal(hm)
	return cache.Hash(data)
}
