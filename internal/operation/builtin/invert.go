package builtin

import (
	"context"

	"github.com/smilemakc/gegraph/internal/buffer"
	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/format"
	"github.com/smilemakc/gegraph/internal/operation"
)

// Invert is a point-wise Filter: out.rgb = 1 - in.rgb, alpha unchanged.
// It takes the default identity region propagation Filter already
// supplies (spec §4.6: "Default compute_input_request is the identity
// roi (point-wise ops)").
type Invert struct {
	operation.Filter
}

func NewInvertFactory() operation.Factory {
	return func() domain.Operation { return &Invert{} }
}

func (v *Invert) Prepare(ctx context.Context) error {
	v.Node.Pad("output").SetFormat(format.RGBAFloat)
	return nil
}

func (v *Invert) Process(ctx context.Context, evalCtx *domain.NodeContext, outputPad string) bool {
	region := evalCtx.ResultRect()
	out := buffer.New(format.RGBAFloat, region)

	in, ok := evalCtx.Slot("input")
	if !ok {
		evalCtx.SetSlot(outputPad, out)
		return true
	}
	inBuf, ok := in.(*buffer.MemBuffer)
	if !ok {
		evalCtx.SetSlot(outputPad, out)
		return true
	}
	for y := region.Y; y < region.Bottom(); y++ {
		for x := region.X; x < region.Right(); x++ {
			px := inBuf.At(x, y)
			out.Set(x, y, [4]float64{1 - px[0], 1 - px[1], 1 - px[2], px[3]})
		}
	}
	evalCtx.SetSlot(outputPad, out)
	return true
}
