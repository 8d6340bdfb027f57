package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/railinfra/pkg/errors"
	"github.com/matzehuels/railinfra/pkg/geom"
	"github.com/matzehuels/railinfra/pkg/marker"
)

// Format is a scene document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported scene file %q (want .json, .toml, .yaml or .yml)", filepath.Base(path))
}

// Document is a decoded scene.
type Document struct {
	Regions []RegionDoc `json:"regions" toml:"regions" yaml:"regions"`
}

// RegionDoc describes one region and its objects.
type RegionDoc struct {
	Name    string      `json:"name" toml:"name" yaml:"name" bson:"name"`
	Width   float64     `json:"width" toml:"width" yaml:"width" bson:"width"`
	Height  float64     `json:"height" toml:"height" yaml:"height" bson:"height"`
	Markers []MarkerDoc `json:"markers,omitempty" toml:"markers,omitempty" yaml:"markers,omitempty" bson:"-"`
}

// MarkerDoc describes one scene object.
type MarkerDoc struct {
	ID          string     `json:"id" toml:"id" yaml:"id" bson:"_id"`
	Tag         string     `json:"tag" toml:"tag" yaml:"tag" bson:"tag"`
	Description string     `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Parts       int        `json:"parts,omitempty" toml:"parts,omitempty" yaml:"parts,omitempty" bson:"parts,omitempty"`
	Position    [3]float64 `json:"position" toml:"position" yaml:"position" bson:"position"`
	Rotation    []float64  `json:"rotation,omitempty" toml:"rotation,omitempty" yaml:"rotation,omitempty" bson:"rotation,omitempty"`
	Yaw         float64    `json:"yaw,omitempty" toml:"yaw,omitempty" yaml:"yaw,omitempty" bson:"yaw,omitempty"`
}

// Decode reads a document in the given format and validates it.
func Decode(r io.Reader, format Format) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidScene, err, "read scene")
	}

	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return Document{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported scene format %q", format)
	}
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode %s scene", format)
	}

	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Validate checks region names and extents and marker IDs and rotations.
func (d *Document) Validate() error {
	names := make(map[string]bool, len(d.Regions))
	for i, r := range d.Regions {
		if err := r.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "region %d", i)
		}
		if names[r.Name] {
			return errors.New(errors.ErrCodeInvalidScene, "duplicate region %q", r.Name)
		}
		names[r.Name] = true

		ids := make(map[string]bool, len(r.Markers))
		for j, m := range r.Markers {
			if err := m.validate(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScene, err, "region %q: marker %d", r.Name, j)
			}
			// uuid.Parse accepts braced, urn and upper-case spellings.
			id := uuid.MustParse(m.ID).String()
			if ids[id] {
				return errors.New(errors.ErrCodeInvalidScene, "region %q: duplicate marker %s", r.Name, id)
			}
			ids[id] = true
		}
	}
	return nil
}

func (r RegionDoc) validate() error {
	if err := errors.ValidateRegionName(r.Name); err != nil {
		return err
	}
	if !(r.Width > 0) || !(r.Height > 0) {
		return fmt.Errorf("region %q: extent must be positive, got %vx%v", r.Name, r.Width, r.Height)
	}
	return nil
}

func (m MarkerDoc) validate() error {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return fmt.Errorf("id %q: %w", m.ID, err)
	}
	if id == uuid.Nil {
		return fmt.Errorf("id %q: the nil UUID is not a valid marker ID", m.ID)
	}
	if m.Parts < 0 {
		return fmt.Errorf("%s: negative part count %d", m.ID, m.Parts)
	}
	if n := len(m.Rotation); n != 0 && n != 4 {
		return fmt.Errorf("%s: rotation needs 4 components [x, y, z, w], got %d", m.ID, n)
	}
	return nil
}

// Region returns the marker region described by r.
func (r RegionDoc) Region() marker.Region {
	return marker.Region{Name: r.Name, Width: r.Width, Height: r.Height}
}

// Marker converts m to a marker in region r. m must be valid.
func (m MarkerDoc) Marker(r *marker.Region) marker.Marker {
	parts := m.Parts
	if parts == 0 {
		parts = 1
	}
	return marker.Marker{
		ID:          uuid.MustParse(m.ID),
		Tag:         m.Tag,
		Description: m.Description,
		Parts:       parts,
		Position:    r3.Vec{X: m.Position[0], Y: m.Position[1], Z: m.Position[2]},
		Rotation:    m.rotation(),
		Region:      r,
	}
}

func (m MarkerDoc) rotation() quat.Number {
	if len(m.Rotation) == 4 {
		return quat.Number{Imag: m.Rotation[0], Jmag: m.Rotation[1], Kmag: m.Rotation[2], Real: m.Rotation[3]}
	}
	if m.Yaw != 0 {
		return geom.Yaw(m.Yaw * math.Pi / 180)
	}
	return geom.Identity
}
