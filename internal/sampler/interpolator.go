package sampler

// Image is the minimal surface the interpolator needs from a pixel
// source: integer dimensions and premultiplied-RGBA-float pixel fetch.
// internal/buffer.MemBuffer satisfies this directly.
type Image interface {
	Width() int
	Height() int
	At(x, y int) [4]float64
}

// Interpolator samples an Image at fractional coordinates using a
// 4x4-tap cubic convolution.
type Interpolator struct {
	Kernel Kernel
}

func New(k Kernel) Interpolator { return Interpolator{Kernel: k} }

// Sample evaluates the image at fractional (x, y). Points strictly
// outside [0, w) x [0, h) return transparent black (the "abyss" policy),
// matching the original's bounds check before touching any taps.
func (ip Interpolator) Sample(img Image, x, y float64) [4]float64 {
	w, h := img.Width(), img.Height()
	if !(x >= 0 && y >= 0 && x < float64(w) && y < float64(h)) {
		return [4]float64{}
	}

	u := int(x)
	v := int(y)

	var sumR, sumG, sumB, sumA float64
	for j := -1; j <= 2; j++ {
		for i := -1; i <= 2; i++ {
			px, py := clamp(u+i, 0, w-1), clamp(v+j, 0, h-1)
			p := img.At(px, py)
			weight := ip.Kernel.Weight(x-float64(u+i)) * ip.Kernel.Weight(y-float64(v+j))

			sumR += weight * p[0] * p[3]
			sumG += weight * p[1] * p[3]
			sumB += weight * p[2] * p[3]
			sumA += weight * p[3]
		}
	}

	if sumA <= 0 {
		return [4]float64{}
	}
	a := clampFloat(sumA, 0, 1)
	return [4]float64{
		clampFloat(sumR/sumA, 0, 1),
		clampFloat(sumG/sumA, 0, 1),
		clampFloat(sumB/sumA, 0, 1),
		a,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
