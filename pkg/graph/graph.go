package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// ErrInvalidLayout is returned when a decoded layout is structurally
// inconsistent.
var ErrInvalidLayout = errors.New("invalid layout")

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteLayout writes a Layout as JSON to an io.Writer.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// UnmarshalLayout deserializes and validates JSON bytes.
func UnmarshalLayout(data []byte) (Layout, error) {
	return ReadLayout(bytes.NewReader(data))
}

// ReadLayout decodes and validates a JSON layout from an io.Reader.
func ReadLayout(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("decode: %w", err)
	}
	if err := Validate(l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}

// Validate checks that track ids are unique, point IDs are UUIDs appearing
// once, and every link names a point of the layout.
func Validate(l Layout) error {
	tracks := make(map[int]bool, len(l.Tracks))
	points := make(map[string]bool, l.Points())
	for _, t := range l.Tracks {
		if tracks[t.ID] {
			return fmt.Errorf("%w: duplicate track %d", ErrInvalidLayout, t.ID)
		}
		tracks[t.ID] = true
		for _, p := range t.Points {
			if _, err := uuid.Parse(p.ID); err != nil {
				return fmt.Errorf("%w: point %q: %v", ErrInvalidLayout, p.ID, err)
			}
			if points[p.ID] {
				return fmt.Errorf("%w: duplicate point %s", ErrInvalidLayout, p.ID)
			}
			points[p.ID] = true
		}
	}

	for _, t := range l.Tracks {
		for _, p := range t.Points {
			for _, to := range p.Links() {
				if !points[to] {
					return fmt.Errorf("%w: point %s links to unknown point %s", ErrInvalidLayout, p.ID, to)
				}
			}
		}
	}
	return nil
}
