// Package config loads kernel grid configuration from CUE files.
//
// Grid presets are written in CUE so dimension constraints are enforced by
// the schema itself rather than by scattered runtime checks:
//
//	grid: {
//	    width:  32
//	    height: 32
//	    depth:  32
//	}
//
// Out-of-range dimensions fail at load time with a CUE error carrying the
// file position.
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/betti-rdl/bettirdl/internal/kernel"
)

// schema constrains grid dimensions. A dimension of at least 1 is required
// for the grid to accept any event; 1024 caps the dense table at ~8 GiB
// and catches transposed or garbage values early.
const schema = `
grid: {
	width:  int & >=1 & <=1024
	height: int & >=1 & <=1024
	depth:  int & >=1 & <=1024
}
`

// Grid holds validated kernel dimensions.
type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Depth  int `json:"depth"`
}

// Space converts the grid to the kernel's space type.
func (g Grid) Space() kernel.Space {
	return kernel.Space{Width: g.Width, Height: g.Height, Depth: g.Depth}
}

// Default returns the kernel's default grid.
func Default() Grid {
	return Grid{Width: kernel.DefaultWidth, Height: kernel.DefaultHeight, Depth: kernel.DefaultDepth}
}

// Load reads a CUE grid configuration from path, unifies it with the
// dimension schema, and decodes it. Constraint violations and missing
// fields surface as CUE errors with file positions.
func Load(path string) (Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Grid{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, data)
}

// Parse compiles and validates CUE config bytes. filename is used for
// error positions only.
func Parse(filename string, data []byte) (Grid, error) {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(schema, cue.Filename("grid-schema.cue"))
	if err := schemaVal.Err(); err != nil {
		return Grid{}, fmt.Errorf("internal schema error: %w", err)
	}

	fileVal := ctx.CompileBytes(data, cue.Filename(filename))
	if err := fileVal.Err(); err != nil {
		return Grid{}, fmt.Errorf("compile config: %w", err)
	}

	unified := schemaVal.Unify(fileVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Grid{}, fmt.Errorf("validate config: %w", err)
	}

	var out struct {
		Grid Grid `json:"grid"`
	}
	if err := unified.Decode(&out); err != nil {
		return Grid{}, fmt.Errorf("decode config: %w", err)
	}

	return out.Grid, nil
}
