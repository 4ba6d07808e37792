package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/format"
)

func TestService_ByNameKnownFormats(t *testing.T) {
	svc := format.NewService()

	f, err := svc.ByName(format.RGBAFloat)
	require.NoError(t, err)
	assert.Equal(t, format.RGBAFloat, f.Name())
	assert.True(t, f.HasAlpha())

	f, err = svc.ByName(format.YU8)
	require.NoError(t, err)
	assert.False(t, f.HasAlpha())
}

func TestService_ByNameUnknownFormatIsPreparationError(t *testing.T) {
	svc := format.NewService()
	_, err := svc.ByName("nonsense format")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodePreparation))
}

func TestService_ConvertRejectsUnknownFormats(t *testing.T) {
	svc := format.NewService()
	src := []byte{1, 2, 3, 4}
	dst := make([]byte, 4)

	err := svc.Convert("nonsense", format.RGBAFloat, src, dst, 1)
	assert.Error(t, err)

	err = svc.Convert(format.RGBAFloat, format.RGBAFloat, src, dst, 1)
	require.NoError(t, err)
	assert.Equal(t, src, dst)
}

func TestEncodeDecodePixel_RGBAFloatRoundTrip(t *testing.T) {
	px := [4]float64{0.25, 0.5, 0.75, 1.0}
	buf := make([]byte, 16)
	format.EncodePixel(buf, format.RGBAFloat, px)
	back := format.DecodePixel(buf, format.RGBAFloat)
	assert.InDelta(t, px[0], back[0], 1e-6)
	assert.InDelta(t, px[1], back[1], 1e-6)
	assert.InDelta(t, px[2], back[2], 1e-6)
	assert.InDelta(t, px[3], back[3], 1e-6)
}

func TestEncodeDecodePixel_YU8QuantizesLuminance(t *testing.T) {
	buf := make([]byte, 1)
	format.EncodePixel(buf, format.YU8, [4]float64{0.5, 0.5, 0.5, 1})
	assert.Equal(t, byte(127), buf[0])
	back := format.DecodePixel(buf, format.YU8)
	assert.InDelta(t, 0.5, back[0], 0.01)
	assert.Equal(t, 1.0, back[3])
}

func TestService_ConvertRGBAFloatToYU8(t *testing.T) {
	svc := format.NewService()
	src := make([]byte, 16)
	format.EncodePixel(src, format.RGBAFloat, [4]float64{1, 1, 1, 1})
	dst := make([]byte, 1)

	require.NoError(t, svc.Convert(format.RGBAFloat, format.YU8, src, dst, 1))
	assert.Equal(t, byte(255), dst[0])
}

func TestService_ConvertPremultipliesAndUnpremultiplies(t *testing.T) {
	svc := format.NewService()
	straight := make([]byte, 16)
	format.EncodePixel(straight, format.RGBAFloat, [4]float64{1, 0, 0, 0.5})

	premult := make([]byte, 16)
	require.NoError(t, svc.Convert(format.RGBAFloat, format.RaGaBaAFloat, straight, premult, 1))
	px := format.DecodePixel(premult, format.RaGaBaAFloat)
	assert.InDelta(t, 0.5, px[0], 1e-6)
	assert.InDelta(t, 0, px[1], 1e-6)
	assert.InDelta(t, 0.5, px[3], 1e-6)

	back := make([]byte, 16)
	require.NoError(t, svc.Convert(format.RaGaBaAFloat, format.RGBAFloat, premult, back, 1))
	roundTripped := format.DecodePixel(back, format.RGBAFloat)
	assert.InDelta(t, 1, roundTripped[0], 1e-6)
	assert.InDelta(t, 0.5, roundTripped[3], 1e-6)
}
