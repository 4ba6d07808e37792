package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/gegraph/internal/buffer"
	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/format"
)

func TestMemBuffer_FillAndRead(t *testing.T) {
	region := domain.Rectangle{X: 0, Y: 0, Width: 8, Height: 8}
	b := buffer.New(format.RGBAFloat, region)
	white := [4]float64{1, 1, 1, 1}
	b.Fill(white)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, white, b.At(x, y))
		}
	}
}

func TestMemBuffer_OutsideRegionIsTransparentBlack(t *testing.T) {
	region := domain.Rectangle{X: 2, Y: 2, Width: 4, Height: 4}
	b := buffer.New(format.RGBAFloat, region)
	b.Fill([4]float64{1, 1, 1, 1})

	assert.Equal(t, [4]float64{}, b.At(0, 0))
	assert.Equal(t, [4]float64{}, b.At(100, 100))
}

func TestMemBuffer_RefCounting(t *testing.T) {
	b := buffer.New(format.RGBAFloat, domain.Rectangle{Width: 1, Height: 1})
	assert.EqualValues(t, 1, b.RefCount())
	b.Retain()
	assert.EqualValues(t, 2, b.RefCount())
	b.Release()
	assert.EqualValues(t, 1, b.RefCount())
}

func TestView_TranslatesToZeroOrigin(t *testing.T) {
	region := domain.Rectangle{X: 10, Y: 10, Width: 2, Height: 2}
	b := buffer.New(format.RGBAFloat, region)
	b.Set(10, 10, [4]float64{0.5, 0, 0, 1})

	v := buffer.NewView(b)
	assert.Equal(t, [4]float64{0.5, 0, 0, 1}, v.At(0, 0))
	assert.Equal(t, 2, v.Width())
	assert.Equal(t, 2, v.Height())
}

func TestService_CreateSubBuffer(t *testing.T) {
	svc := buffer.NewService()
	region := domain.Rectangle{X: 0, Y: 0, Width: 4, Height: 4}
	parent := buffer.New(format.RGBAFloat, region)
	parent.Fill([4]float64{0.2, 0.4, 0.6, 1})

	sub := svc.CreateSubBuffer(parent, domain.Rectangle{X: 1, Y: 1, Width: 2, Height: 2})
	require.NotNil(t, sub)
	assert.Equal(t, domain.Rectangle{X: 1, Y: 1, Width: 2, Height: 2}, sub.Region())
}

func TestPremultiplyUnpremultiply_RoundTrip(t *testing.T) {
	px := [4]float64{0.8, 0.4, 0.2, 0.5}
	pre := format.Premultiply(px)
	back := format.Unpremultiply(pre)
	assert.InDelta(t, px[0], back[0], 1e-9)
	assert.InDelta(t, px[1], back[1], 1e-9)
	assert.InDelta(t, px[2], back[2], 1e-9)
	assert.InDelta(t, px[3], back[3], 1e-9)
}

func TestUnpremultiply_ZeroAlphaIsTransparentBlack(t *testing.T) {
	assert.Equal(t, [4]float64{}, format.Unpremultiply([4]float64{0.1, 0.2, 0.3, 0}))
}

func TestService_GetCopiesRoiInRequestedFormat(t *testing.T) {
	svc := buffer.NewService()
	region := domain.Rectangle{X: 0, Y: 0, Width: 2, Height: 2}
	src := buffer.New(format.RGBAFloat, region)
	src.Fill([4]float64{1, 1, 1, 1})

	dst := make([]byte, 2*2*16)
	err := svc.Get(src, 1.0, region, format.RGBAFloat, dst, 0)
	require.NoError(t, err)

	px := format.DecodePixel(dst[0:16], format.RGBAFloat)
	assert.InDelta(t, 1.0, px[0], 1e-6)
	assert.InDelta(t, 1.0, px[3], 1e-6)
}

func TestService_GetRejectsUndersizedDestination(t *testing.T) {
	svc := buffer.NewService()
	region := domain.Rectangle{X: 0, Y: 0, Width: 2, Height: 2}
	src := buffer.New(format.RGBAFloat, region)

	err := svc.Get(src, 1.0, region, format.RGBAFloat, make([]byte, 4), 0)
	assert.Error(t, err)
}

func TestService_GetDecodeRoundTrip(t *testing.T) {
	svc := buffer.NewService()
	region := domain.Rectangle{X: 0, Y: 0, Width: 2, Height: 1}
	src := buffer.New(format.RGBAFloat, region)
	src.Set(0, 0, [4]float64{1, 0, 0, 1})
	src.Set(1, 0, [4]float64{0, 1, 0, 1})

	raw := make([]byte, region.Width*16)
	require.NoError(t, svc.Get(src, 1.0, region, format.RGBAFloat, raw, 0))

	decoded, err := svc.Decode(format.RGBAFloat, region, raw, 0)
	require.NoError(t, err)
	dmb, ok := decoded.(*buffer.MemBuffer)
	require.True(t, ok)
	assert.InDelta(t, 1.0, dmb.At(0, 0)[0], 1e-6)
	assert.InDelta(t, 1.0, dmb.At(1, 0)[1], 1e-6)
}
