// Package format is the in-process stand-in for spec §6's babl-like pixel
// format service: format lookup by name and conversion between a small,
// fixed set of formats used throughout this engine.
package format

import (
	"encoding/binary"
	"math"

	"github.com/smilemakc/gegraph/internal/domain"
)

const (
	RGBAFloat    = "RGBA float"    // straight (non-premultiplied) alpha
	RaGaBaAFloat = "RaGaBaA float" // premultiplied alpha, the sampler's working format
	YU8          = "Y u8"
)

type pixelFormat struct {
	name  string
	bpp   int
	alpha bool
}

func (f pixelFormat) Name() string     { return f.name }
func (f pixelFormat) BytesPerPixel() int { return f.bpp }
func (f pixelFormat) HasAlpha() bool   { return f.alpha }

var known = map[string]pixelFormat{
	RGBAFloat:    {RGBAFloat, 16, true},
	RaGaBaAFloat: {RaGaBaAFloat, 16, true},
	YU8:          {YU8, 1, false},
}

// Service implements domain.FormatService for the formats this engine
// actually exercises.
type Service struct{}

func NewService() *Service { return &Service{} }

func (s *Service) ByName(name string) (domain.PixelFormat, error) {
	f, ok := known[name]
	if !ok {
		return nil, domain.NewDomainError(domain.ErrCodePreparation, "unknown pixel format: "+name, nil)
	}
	return f, nil
}

// Convert copies n pixels from src (encoded in srcFormat) to dst (encoded
// in dstFormat), mirroring babl's fish/process pairing. When the two
// formats are identical this is a byte copy; otherwise each pixel is
// decoded, premultiplied/unpremultiplied as the format pair requires, and
// re-encoded. internal/buffer.Service.Get is the primary caller: it
// encodes a MemBuffer's pixels into srcFormat's wire layout and uses
// Convert to produce bytes in whatever format the caller actually asked
// for.
func (s *Service) Convert(srcFormat, dstFormat string, src, dst []byte, n int) error {
	sf, err := s.ByName(srcFormat)
	if err != nil {
		return err
	}
	df, err := s.ByName(dstFormat)
	if err != nil {
		return err
	}
	if srcFormat == dstFormat {
		copy(dst, src)
		return nil
	}
	sbpp, dbpp := sf.BytesPerPixel(), df.BytesPerPixel()
	if len(src) < n*sbpp {
		return domain.NewDomainError(domain.ErrCodeRuntime, "format.Convert: src too small for n pixels", nil)
	}
	if len(dst) < n*dbpp {
		return domain.NewDomainError(domain.ErrCodeRuntime, "format.Convert: dst too small for n pixels", nil)
	}
	for i := 0; i < n; i++ {
		px := DecodePixel(src[i*sbpp:i*sbpp+sbpp], srcFormat)
		switch {
		case srcFormat == RaGaBaAFloat && dstFormat != RaGaBaAFloat:
			px = Unpremultiply(px)
		case srcFormat != RaGaBaAFloat && dstFormat == RaGaBaAFloat:
			px = Premultiply(px)
		}
		EncodePixel(dst[i*dbpp:i*dbpp+dbpp], dstFormat, px)
	}
	return nil
}

// EncodePixel writes px (RGBA channel values in 0..1; RaGaBaA values are
// premultiplied, Y u8 reads only channel 0 as luminance) into dst using
// fmtName's wire layout: four little-endian float32s for the two float
// formats, one clamped byte for Y u8.
func EncodePixel(dst []byte, fmtName string, px [4]float64) {
	if fmtName == YU8 {
		dst[0] = byte(clamp01(px[0]) * 255)
		return
	}
	for c := 0; c < 4; c++ {
		binary.LittleEndian.PutUint32(dst[c*4:c*4+4], math.Float32bits(float32(px[c])))
	}
}

// DecodePixel is the inverse of EncodePixel.
func DecodePixel(src []byte, fmtName string) [4]float64 {
	if fmtName == YU8 {
		l := float64(src[0]) / 255
		return [4]float64{l, l, l, 1}
	}
	var px [4]float64
	for c := 0; c < 4; c++ {
		px[c] = float64(math.Float32frombits(binary.LittleEndian.Uint32(src[c*4 : c*4+4])))
	}
	return px
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Premultiply converts a straight-alpha RGBA pixel to premultiplied
// RaGaBaA, the sampler's working format.
func Premultiply(px [4]float64) [4]float64 {
	a := px[3]
	return [4]float64{px[0] * a, px[1] * a, px[2] * a, a}
}

// Unpremultiply is the inverse of Premultiply; sum_a <= 0 yields
// transparent black per spec §4.9 step 4.
func Unpremultiply(px [4]float64) [4]float64 {
	if px[3] <= 0 {
		return [4]float64{}
	}
	return [4]float64{px[0] / px[3], px[1] / px[3], px[2] / px[3], px[3]}
}
