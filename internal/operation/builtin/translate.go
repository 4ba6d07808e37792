package builtin

import (
	"context"

	"github.com/smilemakc/gegraph/internal/buffer"
	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/format"
	"github.com/smilemakc/gegraph/internal/operation"
)

// Translate shifts its input by (DX, DY), the worked example
// operations/affine/translate.c supplies and spec §8 scenario 3 exercises
// directly: requesting output region (5,0,3,10) from
// source(10x10) -> translate(x=3,y=0) -> sink must yield
// need_rect(source) = (2,0,3,10).
type Translate struct {
	operation.Filter
	DX, DY int
}

func NewTranslateFactory(dx, dy int) operation.Factory {
	return func() domain.Operation { return &Translate{DX: dx, DY: dy} }
}

func (t *Translate) Prepare(ctx context.Context) error {
	if src, srcPad, ok := t.Node.Producer("input"); ok {
		if sp := src.Pad(srcPad); sp != nil {
			t.Node.Pad("output").SetFormat(sp.Format())
			return nil
		}
	}
	t.Node.Pad("output").SetFormat(format.RGBAFloat)
	return nil
}

func (t *Translate) GetDefinedRegion() domain.Rectangle {
	if src, _, ok := t.Node.Producer("input"); ok {
		r, _ := src.HaveRect()
		return r.Translate(t.DX, t.DY)
	}
	return domain.Empty
}

// ComputeInputRequest maps a requested output region back onto the
// source: the output at (x, y) is the input at (x-DX, y-DY), so the
// region requested of the source is roi shifted by -offset.
func (t *Translate) ComputeInputRequest(_ string, roi domain.Rectangle) domain.Rectangle {
	return roi.Translate(-t.DX, -t.DY)
}

// ComputeAffectedRegion is the forward counterpart used when an upstream
// invalidation needs translating into this node's output space.
func (t *Translate) ComputeAffectedRegion(_ string, region domain.Rectangle) domain.Rectangle {
	return region.Translate(t.DX, t.DY)
}

func (t *Translate) Process(ctx context.Context, evalCtx *domain.NodeContext, outputPad string) bool {
	region := evalCtx.ResultRect()
	outFmt := format.RGBAFloat
	if p := t.Node.Pad(outputPad); p != nil && p.Format() != "" {
		outFmt = p.Format()
	}
	out := buffer.New(outFmt, region)

	if in, ok := evalCtx.Slot("input"); ok {
		if inBuf, ok := in.(*buffer.MemBuffer); ok {
			for y := region.Y; y < region.Bottom(); y++ {
				for x := region.X; x < region.Right(); x++ {
					out.Set(x, y, inBuf.At(x-t.DX, y-t.DY))
				}
			}
		}
	}
	evalCtx.SetSlot(outputPad, out)
	return true
}
