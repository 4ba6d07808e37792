// Package builtin holds the small set of concrete operations this
// repository ships to exercise the engine end-to-end. Spec §1 puts
// concrete operations out of scope; these exist only as worked examples
// grounding the pipeline's testable scenarios and are not meant
// to be an image-processing operation library.
package builtin

import (
	"context"

	"github.com/smilemakc/gegraph/internal/buffer"
	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/format"
	"github.com/smilemakc/gegraph/internal/operation"
)

// Solid is a Source operation producing a fixed-size, fixed-color RGBA
// float canvas. Grounded on gegl-operation-source.h's Source contract
// (an operation with only an output pad and an implementation-specific
// defined region, spec §4.5).
type Solid struct {
	operation.Source
	Width, Height int
	Color         [4]float64 // straight (non-premultiplied) RGBA
}

func NewSolidFactory(width, height int, color [4]float64) operation.Factory {
	return func() domain.Operation {
		return &Solid{Width: width, Height: height, Color: color}
	}
}

func (s *Solid) Prepare(ctx context.Context) error {
	s.Node.Pad("output").SetFormat(format.RGBAFloat)
	return nil
}

func (s *Solid) GetDefinedRegion() domain.Rectangle {
	return domain.Rectangle{X: 0, Y: 0, Width: s.Width, Height: s.Height}
}

func (s *Solid) Process(ctx context.Context, evalCtx *domain.NodeContext, outputPad string) bool {
	region := evalCtx.ResultRect()
	out := buffer.New(format.RGBAFloat, region)
	out.Fill(s.Color)
	evalCtx.SetSlot(outputPad, out)
	return true
}
