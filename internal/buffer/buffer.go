// Package buffer is the in-process stand-in for spec §6's external
// pixel buffer service: reference-counted rectangular pixel storage.
// A production deployment would back this with tiled, possibly
// disk-resident storage; this implementation keeps everything in one
// flat float64 slice, which is enough to exercise and test every
// operation and the sampler.
package buffer

import (
	"sync/atomic"

	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/format"
)

// Channels per pixel. Every format this package supports is 4-channel
// (RGBA or premultiplied RaGaBaA); Y u8 buffers still reserve 4 slots
// for simplicity and only use the first.
const Channels = 4

// MemBuffer is an in-memory, reference-counted rectangular pixel region.
type MemBuffer struct {
	format string
	region domain.Rectangle
	pix    []float64 // interleaved, row-major, Channels per pixel
	refs   *int32
}

// New allocates a zeroed buffer of region covering format.
func New(format string, region domain.Rectangle) *MemBuffer {
	n := 0
	if !region.IsEmpty() {
		n = region.Width * region.Height * Channels
	}
	refs := int32(1)
	return &MemBuffer{format: format, region: region, pix: make([]float64, n), refs: &refs}
}

func (b *MemBuffer) Format() string          { return b.format }
func (b *MemBuffer) Region() domain.Rectangle { return b.region }

func (b *MemBuffer) Retain() domain.Buffer {
	atomic.AddInt32(b.refs, 1)
	return b
}

func (b *MemBuffer) Release() {
	atomic.AddInt32(b.refs, -1)
}

func (b *MemBuffer) RefCount() int32 { return atomic.LoadInt32(b.refs) }

func (b *MemBuffer) index(x, y int) int {
	return ((y-b.region.Y)*b.region.Width + (x - b.region.X)) * Channels
}

// Width and Height let MemBuffer satisfy internal/sampler.Image directly
// when used as a 0-origin image (callers sampling a sub-region should
// wrap it in a View, see NewView).
func (b *MemBuffer) Width() int  { return b.region.Width }
func (b *MemBuffer) Height() int { return b.region.Height }

// At returns the RGBA (or RaGaBaA) value at absolute pixel (x, y). Points
// outside the buffer's region return transparent black; At does not clamp
// coordinates to the nearest edge pixel.
func (b *MemBuffer) At(x, y int) [Channels]float64 {
	if x < b.region.X || y < b.region.Y || x >= b.region.Right() || y >= b.region.Bottom() {
		return [Channels]float64{}
	}
	i := b.index(x, y)
	var px [Channels]float64
	copy(px[:], b.pix[i:i+Channels])
	return px
}

func (b *MemBuffer) Set(x, y int, px [Channels]float64) {
	if x < b.region.X || y < b.region.Y || x >= b.region.Right() || y >= b.region.Bottom() {
		return
	}
	i := b.index(x, y)
	copy(b.pix[i:i+Channels], px[:])
}

// View adapts a MemBuffer to 0-origin (x, y) coordinates, the convention
// internal/sampler.Image expects, regardless of the buffer's own
// region offset.
type View struct {
	buf *MemBuffer
}

func NewView(b *MemBuffer) View { return View{buf: b} }

func (v View) Width() int  { return v.buf.region.Width }
func (v View) Height() int { return v.buf.region.Height }
func (v View) At(x, y int) [Channels]float64 {
	return v.buf.At(x+v.buf.region.X, y+v.buf.region.Y)
}

// Fill sets every pixel in the buffer to px.
func (b *MemBuffer) Fill(px [Channels]float64) {
	for y := b.region.Y; y < b.region.Bottom(); y++ {
		for x := b.region.X; x < b.region.Right(); x++ {
			b.Set(x, y, px)
		}
	}
}

// Service implements domain.BufferService backed by MemBuffer.
type Service struct {
	// Formats is the pixel format negotiation/conversion collaborator Get
	// and Decode use to honor a format different from a buffer's own.
	// Nil falls back to a shared default format.Service, so the
	// zero-value Service{} stays usable.
	Formats domain.FormatService
}

func NewService() *Service { return &Service{Formats: format.NewService()} }

// defaultFormats backs Service.formatSvc when a Service is constructed
// with its zero value (Formats left nil) rather than via NewService.
var defaultFormats domain.FormatService = format.NewService()

func (s *Service) formatSvc() domain.FormatService {
	if s.Formats != nil {
		return s.Formats
	}
	return defaultFormats
}

func (s *Service) Create(fmtName string, region domain.Rectangle) domain.Buffer {
	return New(fmtName, region)
}

// Get copies roi from buf into dst, converting from buf's own format to
// outFormat via the format service (scale is ignored since this
// in-memory service never stores mipmaps; roi is always copied at
// scale 1).
// rowstride is the byte stride between successive encoded rows in dst; a
// value <= 0 defaults to a tightly packed roi.Width*bpp.
func (s *Service) Get(buf domain.Buffer, scale float64, roi domain.Rectangle, outFormat string, dst []byte, rowstride int) error {
	mb, ok := buf.(*MemBuffer)
	if !ok {
		return domain.NewDomainError(domain.ErrCodeRuntime, "buffer not produced by this service", nil)
	}
	_ = scale
	if roi.IsEmpty() {
		return nil
	}
	fsvc := s.formatSvc()
	srcPF, err := fsvc.ByName(mb.format)
	if err != nil {
		return err
	}
	dstPF, err := fsvc.ByName(outFormat)
	if err != nil {
		return err
	}
	sbpp, dbpp := srcPF.BytesPerPixel(), dstPF.BytesPerPixel()
	stride := rowstride
	if stride <= 0 {
		stride = roi.Width * dbpp
	}
	if stride*roi.Height > len(dst) {
		return domain.NewDomainError(domain.ErrCodeRuntime, "dst too small for requested roi/format/rowstride", nil)
	}

	srcRow := make([]byte, roi.Width*sbpp)
	dstRow := make([]byte, roi.Width*dbpp)
	for row := 0; row < roi.Height; row++ {
		y := roi.Y + row
		for col := 0; col < roi.Width; col++ {
			format.EncodePixel(srcRow[col*sbpp:(col+1)*sbpp], mb.format, mb.At(roi.X+col, y))
		}
		if err := fsvc.Convert(mb.format, outFormat, srcRow, dstRow, roi.Width); err != nil {
			return err
		}
		copy(dst[row*stride:row*stride+roi.Width*dbpp], dstRow)
	}
	return nil
}

// Decode is the inverse of Get: it wraps raw, already-encoded pixel bytes
// in a fresh MemBuffer tagged outFormat, decoding each pixel back into
// the engine's internal float64 channel representation. Used by the eval
// manager to deliver a Blit result in a format different from the
// format the graph actually computed in.
func (s *Service) Decode(outFormat string, region domain.Rectangle, raw []byte, rowstride int) (domain.Buffer, error) {
	mb := New(outFormat, region)
	if region.IsEmpty() {
		return mb, nil
	}
	fsvc := s.formatSvc()
	pf, err := fsvc.ByName(outFormat)
	if err != nil {
		return nil, err
	}
	bpp := pf.BytesPerPixel()
	stride := rowstride
	if stride <= 0 {
		stride = region.Width * bpp
	}
	if stride*region.Height > len(raw) {
		return nil, domain.NewDomainError(domain.ErrCodeRuntime, "raw too small for region/format/rowstride", nil)
	}
	for row := 0; row < region.Height; row++ {
		y := region.Y + row
		rowBytes := raw[row*stride : row*stride+region.Width*bpp]
		for col := 0; col < region.Width; col++ {
			px := format.DecodePixel(rowBytes[col*bpp:(col+1)*bpp], outFormat)
			mb.Set(region.X+col, y, px)
		}
	}
	return mb, nil
}

func (s *Service) CreateSubBuffer(buf domain.Buffer, region domain.Rectangle) domain.Buffer {
	mb, ok := buf.(*MemBuffer)
	if !ok {
		return buf
	}
	sub := New(mb.format, region)
	for y := region.Y; y < region.Bottom(); y++ {
		for x := region.X; x < region.Right(); x++ {
			sub.Set(x, y, mb.At(x, y))
		}
	}
	return sub
}
