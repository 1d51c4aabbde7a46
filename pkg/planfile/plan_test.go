package planfile

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	errs "github.com/matzehuels/stackplan/pkg/errors"
	"github.com/matzehuels/stackplan/pkg/geometry"
	"github.com/matzehuels/stackplan/pkg/pipeline"
)

const lShapePlan = `
version = 1
world_size = 16
max_depth = 4
directions = ["front", "Right"]
allow_alternating = true
timeout = "2s"

[[cost]]
kind = "travel_distance"
weight = 0.5

[[box]]
id = "P1"
article = "A"
low = [0, 0, 0]
high = [1, 1, 1]

[[box]]
id = "P2"
article = "A"
low = [0, 1, 0]
high = [1, 2, 1]

[[box]]
id = "P3"
low = [1, 0, 0]
high = [2, 1, 1]
`

func TestDecode(t *testing.T) {
	p, err := Decode(strings.NewReader(lShapePlan))
	if err != nil {
		t.Fatal(err)
	}
	boxes, err := p.ToBoxes()
	if err != nil {
		t.Fatal(err)
	}
	if got := geometry.IDs(boxes); !slices.Equal(got, []string{"P1", "P2", "P3"}) {
		t.Errorf("boxes = %v", got)
	}
	if boxes[1].Bounds.Low != (geometry.Point{X: 0, Y: 1, Z: 0}) || boxes[2].Article != "" {
		t.Errorf("box fields not decoded: %+v", boxes)
	}

	opts, err := p.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.WorldSize != 16 || opts.MaxDepth != 4 || !opts.AllowAlternating || opts.Timeout != 2*time.Second {
		t.Errorf("options = %+v", opts)
	}
	if !slices.Equal(opts.Directions, []geometry.Direction{geometry.Front, geometry.Right}) {
		t.Errorf("directions = %v", opts.Directions)
	}
	if len(opts.Costs) != 1 || opts.Costs[0] != (pipeline.CostSpec{Kind: "travel_distance", Weight: 0.5}) {
		t.Errorf("costs = %v", opts.Costs)
	}
}

func TestDecodeMinimalPlanKeepsDefaultsUnset(t *testing.T) {
	p, err := Decode(strings.NewReader("[[box]]\nid = \"a\"\nlow = [0, 0, 0]\nhigh = [1, 1, 1]\n"))
	if err != nil {
		t.Fatal(err)
	}
	opts, err := p.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.WorldSize != 0 || opts.Directions != nil || opts.Costs != nil || opts.Timeout != 0 {
		t.Errorf("unset values should stay zero: %+v", opts)
	}
}

func TestDecodeErrors(t *testing.T) {
	box := "[[box]]\nid = \"a\"\nlow = [0, 0, 0]\nhigh = [1, 1, 1]\n"
	tests := []struct {
		name string
		plan string
		code errs.Code
	}{
		{"syntax", "world_size = ", errs.ErrCodeInvalidFormat},
		{"unknown key", "wrld_size = 3\n" + box, errs.ErrCodeInvalidFormat},
		{"version", "version = 7\n" + box, errs.ErrCodeUnsupportedVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.plan))
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestConversionErrors(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
		code errs.Code
	}{
		{"two coordinates", Plan{Boxes: []BoxSpec{{ID: "a", Low: []float64{0, 0}, High: []float64{1, 1, 1}}}}, errs.ErrCodeInvalidGeometry},
		{"inverted", Plan{Boxes: []BoxSpec{{ID: "a", Low: []float64{1, 0, 0}, High: []float64{0, 1, 1}}}}, errs.ErrCodeInvalidGeometry},
		{"empty id", Plan{Boxes: []BoxSpec{{Low: []float64{0, 0, 0}, High: []float64{1, 1, 1}}}}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.plan.ToBoxes()
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := (&Plan{Directions: []string{"up"}}).Options(); !errs.Is(err, errs.ErrCodeInvalidDirection) {
		t.Errorf("bad direction: %v", err)
	}
	if _, err := (&Plan{Timeout: "soon"}).Options(); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("bad timeout: %v", err)
	}
}

func TestLoad(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}
	if _, err := Load(""); !errs.Is(err, errs.ErrCodeInvalidPath) {
		t.Errorf("empty path: %v", err)
	}
}

func TestExamplePlans(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "plans", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no example plans found")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			p, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			boxes, err := p.ToBoxes()
			if err != nil {
				t.Fatal(err)
			}
			opts, err := p.Options()
			if err != nil {
				t.Fatal(err)
			}
			opts.MaxBoxes = len(boxes)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	p, err := Decode(strings.NewReader(lShapePlan))
	if err != nil {
		t.Fatal(err)
	}
	boxes, _ := p.ToBoxes()
	opts, _ := p.Options()

	var buf bytes.Buffer
	if err := Encode(&buf, FromBoxes(boxes, opts)); err != nil {
		t.Fatal(err)
	}
	again, err := Decode(&buf)
	if err != nil {
		t.Fatalf("re-decode: %v\n%s", err, buf.String())
	}
	boxes2, err := again.ToBoxes()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(boxes, boxes2) {
		t.Errorf("boxes changed:\n%v\n%v", boxes, boxes2)
	}
	opts2, _ := again.Options()
	if opts2.Timeout != opts.Timeout || !slices.Equal(opts2.Directions, opts.Directions) || !slices.Equal(opts2.Costs, opts.Costs) {
		t.Errorf("options changed: %+v vs %+v", opts2, opts)
	}
}

func TestDecodeJSON(t *testing.T) {
	body := `{"directions": ["top"], "box": [{"id": "a", "low": [0, 0, 0], "high": [1, 1, 1]}]}`
	p, err := DecodeJSON(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Boxes) != 1 || p.Directions[0] != "top" {
		t.Errorf("plan = %+v", p)
	}
	if _, err := DecodeJSON(strings.NewReader(`{"boxes": []}`)); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("unknown field: %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	a, _ := geometry.NewBox("a", "X", geometry.Point{}, geometry.Point{X: 1, Y: 1, Z: 1})
	b, _ := geometry.NewBox("b", "Y", geometry.Point{Z: 1}, geometry.Point{X: 1, Y: 1, Z: 2})
	res := &pipeline.Result{
		RunID:      "run",
		Sequence:   []geometry.Box{b, a},
		BuildOrder: []geometry.Box{a, b},
		Cost:       2,
		Directions: []geometry.Direction{geometry.Top},
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatal(err)
	}
	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Sequence[0].ID != "b" || !slices.Equal(out.Sequence[0].Low, []float64{0, 0, 1}) {
		t.Errorf("sequence = %+v", out.Sequence)
	}
	if !slices.Equal(out.BuildOrder, []string{"a", "b"}) || !slices.Equal(out.Directions, []string{"top"}) || out.Cost != 2 {
		t.Errorf("output = %+v", out)
	}
}

func TestOptionsCapsDepth(t *testing.T) {
	for _, tt := range []struct {
		depth   int
		wantErr bool
	}{
		{errs.MaxDepth, false},
		{errs.MaxDepth + 1, true},
	} {
		p := &Plan{MaxDepth: tt.depth}
		opts, err := p.Options()
		if err != nil {
			t.Fatal(err)
		}
		err = opts.ValidateAndSetDefaults()
		if tt.wantErr != (err != nil) {
			t.Errorf("max_depth %d: error = %v, wantErr %v", tt.depth, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidConfig) {
			t.Errorf("max_depth %d: code = %s", tt.depth, errs.GetCode(err))
		}
	}
}
