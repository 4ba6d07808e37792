package domain

import "context"

// Variant is the tagged union spec §9 uses to replace virtual dispatch:
// each operation declares one variant, which fixes its pad topology and
// default region-propagation behavior.
type Variant int

const (
	VariantSource Variant = iota
	VariantFilter
	VariantComposer
	VariantSink
)

func (v Variant) String() string {
	switch v {
	case VariantSource:
		return "source"
	case VariantFilter:
		return "filter"
	case VariantComposer:
		return "composer"
	case VariantSink:
		return "sink"
	default:
		return "unknown"
	}
}

// Operation is the polymorphic contract every operation kind implements
//. A concrete operation is attached to exactly one Node.
type Operation interface {
	// Variant fixes the pad topology: Source{output}, Filter{input,output},
	// Composer{input,aux,output}, Sink{input}.
	Variant() Variant

	// Attach is called once, when the operation is installed on a node;
	// it is responsible for creating the operation's pads.
	Attach(n *Node) error

	// Prepare negotiates and publishes this node's pad pixel formats.
	// Inputs are already prepared when this runs (reverse-DFS order).
	Prepare(ctx context.Context) error

	// GetDefinedRegion returns the natural rectangle this node is
	// willing to produce, given its (already prepared) inputs.
	GetDefinedRegion() Rectangle

	// ComputeAffectedRegion translates a dirty region on inputPad into
	// the region of this node's output that it affects.
	ComputeAffectedRegion(inputPad string, region Rectangle) Rectangle

	// ComputeInputRequest translates a requested output region into the
	// region this operation needs from inputPad.
	ComputeInputRequest(inputPad string, roi Rectangle) Rectangle

	// Detect returns the node responsible for the pixel at (x, y), or
	// nil if none claims it. Used for picking/hit-testing; most
	// operations never override the default (always-nil) behavior.
	Detect(x, y int) *Node

	// Process computes result_rect (evalCtx.ResultRect) and binds the
	// produced buffer to evalCtx's "output" slot. It returns false on
	// failure.
	Process(ctx context.Context, evalCtx *NodeContext, outputPad string) bool
}

// DefaultComputeInputRequest is the identity propagation spec §4.6
// prescribes for point-wise operations; most Filter/Composer operations
// embed one of the variant bases in internal/operation, which already
// supply this.
func DefaultComputeInputRequest(roi Rectangle) Rectangle { return roi }

// DefaultComputeAffectedRegion mirrors DefaultComputeInputRequest for the
// forward (invalidation) direction.
func DefaultComputeAffectedRegion(region Rectangle) Rectangle { return region }
