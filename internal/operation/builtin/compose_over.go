package builtin

import (
	"context"

	"github.com/smilemakc/gegraph/internal/buffer"
	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/format"
	"github.com/smilemakc/gegraph/internal/operation"
)

// ComposeOver is a Composer operation implementing the Porter-Duff
// "over" blend of aux on top of input. Per spec §4.7 ("if aux is absent,
// operation must be defined (subclass decides, typically treating aux as
// transparent)"), a disconnected aux is treated as fully transparent
// black, so the output is input unchanged.
type ComposeOver struct {
	operation.Composer
}

func NewComposeOverFactory() operation.Factory {
	return func() domain.Operation { return &ComposeOver{} }
}

func (c *ComposeOver) Prepare(ctx context.Context) error {
	c.Node.Pad("output").SetFormat(format.RGBAFloat)
	return nil
}

func (c *ComposeOver) Process(ctx context.Context, evalCtx *domain.NodeContext, outputPad string) bool {
	region := evalCtx.ResultRect()
	out := buffer.New(format.RGBAFloat, region)

	var inBuf, auxBuf *buffer.MemBuffer
	if in, ok := evalCtx.Slot("input"); ok {
		inBuf, _ = in.(*buffer.MemBuffer)
	}
	if aux, ok := evalCtx.Slot("aux"); ok {
		auxBuf, _ = aux.(*buffer.MemBuffer)
	}

	for y := region.Y; y < region.Bottom(); y++ {
		for x := region.X; x < region.Right(); x++ {
			var bottom [4]float64
			if inBuf != nil {
				bottom = inBuf.At(x, y)
			}
			if auxBuf == nil {
				out.Set(x, y, bottom)
				continue
			}
			top := auxBuf.At(x, y)
			out.Set(x, y, over(top, bottom))
		}
	}
	evalCtx.SetSlot(outputPad, out)
	return true
}

// over composes top above bottom (both straight-alpha RGBA).
func over(top, bottom [4]float64) [4]float64 {
	a := top[3] + bottom[3]*(1-top[3])
	if a <= 0 {
		return [4]float64{}
	}
	var out [4]float64
	for i := 0; i < 3; i++ {
		out[i] = (top[i]*top[3] + bottom[i]*bottom[3]*(1-top[3])) / a
	}
	out[3] = a
	return out
}
