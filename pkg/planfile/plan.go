package planfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/stackplan/pkg/errors"
	"github.com/matzehuels/stackplan/pkg/geometry"
	"github.com/matzehuels/stackplan/pkg/pipeline"
)

// Version is the plan file format version written by [Encode].
const Version = 1

// Plan is the decoded form of a plan file.
type Plan struct {
	Version          int                 `toml:"version,omitempty" json:"version,omitempty"`
	WorldSize        float64             `toml:"world_size,omitempty" json:"world_size,omitempty"`
	MaxDepth         int                 `toml:"max_depth,omitempty" json:"max_depth,omitempty"`
	Directions       []string            `toml:"directions,omitempty" json:"directions,omitempty"`
	AllowAlternating bool                `toml:"allow_alternating,omitempty" json:"allow_alternating,omitempty"`
	Timeout          string              `toml:"timeout,omitempty" json:"timeout,omitempty"`
	Costs            []pipeline.CostSpec `toml:"cost,omitempty" json:"cost,omitempty"`
	Boxes            []BoxSpec           `toml:"box" json:"box"`
}

// BoxSpec is one box of a plan. Low and High hold x, y and z.
type BoxSpec struct {
	ID      string    `toml:"id" json:"id"`
	Article string    `toml:"article,omitempty" json:"article,omitempty"`
	Low     []float64 `toml:"low" json:"low"`
	High    []float64 `toml:"high" json:"high"`
}

// Decode reads a TOML plan from r. Unknown keys are rejected so that typos
// do not silently fall back to defaults.
func Decode(r io.Reader) (*Plan, error) {
	var p Plan
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode plan")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown plan keys: %s", strings.Join(keys, ", "))
	}
	if err := p.checkVersion(); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeJSON reads a plan in its JSON form.
func DecodeJSON(r io.Reader) (*Plan, error) {
	var p Plan
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode plan")
	}
	if err := p.checkVersion(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads a TOML plan file.
func Load(path string) (*Plan, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "plan file %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data))
}

// Encode writes p as TOML.
func Encode(w io.Writer, p *Plan) error {
	if err := toml.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return nil
}

func (p *Plan) checkVersion() error {
	if p.Version != 0 && p.Version != Version {
		return errs.New(errs.ErrCodeUnsupportedVersion, "plan version %d is not supported (want %d)", p.Version, Version)
	}
	return nil
}

// ToBoxes converts the box specs into validated boxes, in file order.
func (p *Plan) ToBoxes() ([]geometry.Box, error) {
	boxes := make([]geometry.Box, 0, len(p.Boxes))
	for i, s := range p.Boxes {
		b, err := s.Box()
		if err != nil {
			return nil, fmt.Errorf("box %d: %w", i+1, err)
		}
		boxes = append(boxes, b)
	}
	return boxes, nil
}

// Box converts one spec into a box.
func (s BoxSpec) Box() (geometry.Box, error) {
	if err := errs.ValidateBoxID(s.ID); err != nil {
		return geometry.Box{}, err
	}
	low, err := point(s.Low)
	if err != nil {
		return geometry.Box{}, errs.Wrap(errs.ErrCodeInvalidGeometry, err, "box %s low", s.ID)
	}
	high, err := point(s.High)
	if err != nil {
		return geometry.Box{}, errs.Wrap(errs.ErrCodeInvalidGeometry, err, "box %s high", s.ID)
	}
	b, err := geometry.NewBox(s.ID, s.Article, low, high)
	if err != nil {
		return geometry.Box{}, errs.Wrap(errs.ErrCodeInvalidGeometry, err, "box %s", s.ID)
	}
	return b, nil
}

func point(v []float64) (geometry.Point, error) {
	if len(v) != 3 {
		return geometry.Point{}, fmt.Errorf("want 3 coordinates, got %d", len(v))
	}
	return geometry.Point{X: v[0], Y: v[1], Z: v[2]}, nil
}

// Options converts the plan settings into pipeline options. Unset values
// stay zero so that [pipeline.Options.SetDefaults] fills them in. Plans
// are untrusted input, so the octree depth is capped at errs.MaxDepth.
func (p *Plan) Options() (pipeline.Options, error) {
	opts := pipeline.Options{
		MaxDepth:         p.MaxDepth,
		WorldSize:        p.WorldSize,
		AllowAlternating: p.AllowAlternating,
		Costs:            p.Costs,
		DepthLimit:       errs.MaxDepth,
	}
	dirs, err := ParseDirections(p.Directions)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.Directions = dirs
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return pipeline.Options{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "timeout %q", p.Timeout)
		}
		opts.Timeout = d
	}
	return opts, nil
}

// ParseDirections parses direction names such as "top" or "front".
func ParseDirections(names []string) ([]geometry.Direction, error) {
	if len(names) == 0 {
		return nil, nil
	}
	dirs := make([]geometry.Direction, 0, len(names))
	for _, n := range names {
		d, err := geometry.ParseDirection(n)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidDirection, err, "direction %q", n)
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

// FromBoxes builds a plan holding boxes and the settings of opts.
func FromBoxes(boxes []geometry.Box, opts pipeline.Options) *Plan {
	p := &Plan{
		Version:          Version,
		WorldSize:        opts.WorldSize,
		MaxDepth:         opts.MaxDepth,
		AllowAlternating: opts.AllowAlternating,
		Costs:            opts.Costs,
		Boxes:            make([]BoxSpec, len(boxes)),
	}
	for _, d := range opts.Directions {
		p.Directions = append(p.Directions, d.String())
	}
	if opts.Timeout > 0 {
		p.Timeout = opts.Timeout.String()
	}
	for i, b := range boxes {
		p.Boxes[i] = BoxSpec{
			ID:      b.ID,
			Article: b.Article,
			Low:     coords(b.Bounds.Low),
			High:    coords(b.Bounds.High),
		}
	}
	return p
}

func coords(p geometry.Point) []float64 {
	return []float64{p.X, p.Y, p.Z}
}
