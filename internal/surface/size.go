package surface

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinDimension is the smallest accepted width or height.
	MinDimension = 100
	// MaxDimension is the largest accepted width or height.
	MaxDimension = 4096
)

// ErrInvalidDimensions is returned when a requested canvas size falls outside
// [MinDimension, MaxDimension].
var ErrInvalidDimensions = errors.New("invalid canvas dimensions")

// DimensionError describes a rejected canvas size. Its message is suitable
// for showing to the user as-is.
type DimensionError struct {
	Width, Height int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("Please enter valid dimensions (between %d and %d pixels), got %dx%d",
		MinDimension, MaxDimension, e.Width, e.Height)
}

func (e *DimensionError) Unwrap() error { return ErrInvalidDimensions }

// Size is a canvas size in pixels.
type Size struct {
	Width, Height int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Preset is a named canvas size offered before a session starts.
type Preset struct {
	Name string
	Size Size
}

// Presets lists the built-in canvas sizes.
var Presets = []Preset{
	{Name: "small", Size: Size{800, 600}},
	{Name: "medium", Size: Size{1024, 768}},
	{Name: "large", Size: Size{1280, 720}},
}

// DefaultSize is used when no canvas size is configured.
var DefaultSize = Presets[0].Size

// Validate checks that both dimensions are within range.
func Validate(s Size) error {
	if s.Width < MinDimension || s.Width > MaxDimension ||
		s.Height < MinDimension || s.Height > MaxDimension {
		return &DimensionError{Width: s.Width, Height: s.Height}
	}
	return nil
}

// ParseSize accepts a preset name ("small", "medium", "large") or a custom
// "WIDTHxHEIGHT" string. The result is validated.
func ParseSize(spec string) (Size, error) {
	spec = strings.ToLower(strings.TrimSpace(spec))
	for _, p := range Presets {
		if p.Name == spec {
			return p.Size, nil
		}
	}
	w, h, ok := strings.Cut(spec, "x")
	if !ok {
		return Size{}, fmt.Errorf("canvas size %q: expected a preset name or WIDTHxHEIGHT", spec)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return Size{}, fmt.Errorf("canvas width %q: %w", w, err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return Size{}, fmt.Errorf("canvas height %q: %w", h, err)
	}
	s := Size{Width: width, Height: height}
	if err := Validate(s); err != nil {
		return Size{}, err
	}
	return s, nil
}
