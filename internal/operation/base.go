package operation

import (
	"github.com/smilemakc/gegraph/internal/domain"
)

// Source is the embeddable base for operations with only an output pad.
// Concrete sources must still implement GetDefinedRegion and Process;
// this base only wires up the pad topology and the defaults that never
// vary across sources (there is no input to request anything from).
type Source struct {
	Node *domain.Node
}

func (s *Source) Variant() domain.Variant { return domain.VariantSource }

func (s *Source) Attach(n *domain.Node) error {
	s.Node = n
	n.AddPad(domain.Output, "output")
	return nil
}

func (s *Source) ComputeAffectedRegion(_ string, region domain.Rectangle) domain.Rectangle {
	return region
}

func (s *Source) ComputeInputRequest(_ string, roi domain.Rectangle) domain.Rectangle {
	return domain.Empty
}

func (s *Source) Detect(x, y int) *domain.Node { return nil }

// Filter is the embeddable base for 1-input, 1-output operations. Default
// region propagation is the identity: the filter's
// defined region is its input's, and a requested output region maps
// straight through to the same input region. Geometric transforms
// override ComputeInputRequest/ComputeAffectedRegion/GetDefinedRegion.
type Filter struct {
	Node *domain.Node
}

func (f *Filter) Variant() domain.Variant { return domain.VariantFilter }

func (f *Filter) Attach(n *domain.Node) error {
	f.Node = n
	n.AddPad(domain.Input, "input")
	n.AddPad(domain.Output, "output")
	return nil
}

func (f *Filter) GetDefinedRegion() domain.Rectangle {
	if src, _, ok := f.Node.Producer("input"); ok {
		r, _ := src.HaveRect()
		return r
	}
	return domain.Empty
}

func (f *Filter) ComputeAffectedRegion(_ string, region domain.Rectangle) domain.Rectangle {
	return region
}

func (f *Filter) ComputeInputRequest(_ string, roi domain.Rectangle) domain.Rectangle {
	return roi
}

func (f *Filter) Detect(x, y int) *domain.Node { return nil }

// Composer is the embeddable base for operations with an input, an aux
// input, and an output. Default defined region is the bounding box of
// both inputs' defined regions; if aux is disconnected the
// concrete operation decides how to treat it (spec §4.7 says it must be
// defined, never leaving both absent).
type Composer struct {
	Node *domain.Node
}

func (c *Composer) Variant() domain.Variant { return domain.VariantComposer }

func (c *Composer) Attach(n *domain.Node) error {
	c.Node = n
	n.AddPad(domain.Input, "input")
	n.AddPad(domain.Input, "aux")
	n.AddPad(domain.Output, "output")
	return nil
}

func (c *Composer) GetDefinedRegion() domain.Rectangle {
	var region domain.Rectangle
	if src, _, ok := c.Node.Producer("input"); ok {
		r, _ := src.HaveRect()
		region = r
	}
	if aux, _, ok := c.Node.Producer("aux"); ok {
		r, _ := aux.HaveRect()
		region = domain.BoundingBox(region, r)
	}
	return region
}

func (c *Composer) ComputeAffectedRegion(_ string, region domain.Rectangle) domain.Rectangle {
	return region
}

func (c *Composer) ComputeInputRequest(_ string, roi domain.Rectangle) domain.Rectangle {
	return roi
}

func (c *Composer) Detect(x, y int) *domain.Node { return nil }

// Sink is the embeddable base for operations with only an input; it
// consumes buffers and produces no output slot.
type Sink struct {
	Node *domain.Node
}

func (s *Sink) Variant() domain.Variant { return domain.VariantSink }

func (s *Sink) Attach(n *domain.Node) error {
	s.Node = n
	n.AddPad(domain.Input, "input")
	return nil
}

func (s *Sink) GetDefinedRegion() domain.Rectangle {
	if src, _, ok := s.Node.Producer("input"); ok {
		r, _ := src.HaveRect()
		return r
	}
	return domain.Empty
}

func (s *Sink) ComputeAffectedRegion(_ string, region domain.Rectangle) domain.Rectangle {
	return region
}

func (s *Sink) ComputeInputRequest(_ string, roi domain.Rectangle) domain.Rectangle {
	return roi
}

func (s *Sink) Detect(x, y int) *domain.Node { return nil }
