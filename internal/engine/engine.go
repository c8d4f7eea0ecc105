// Package engine defines the contract between the fuzz harness and a
// polygon boolean-operation engine under test: fill and overlay rules,
// the Engine and Graph interfaces, and the error taxonomy the runner
// records per variant.
//
// Назначение: интерфейс тестируемого движка и типизированные ошибки.
//
// Не делает: реализацию булевых операций — адаптеры живут в подпакетах.
package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bretttully/polyfuzz/internal/geo"
)

// FillRule determines which regions of self-overlapping input count as
// inside. Values match the upstream enum order.
type FillRule uint8

const (
	FillEvenOdd FillRule = iota
	FillNonZero
	FillPositive
	FillNegative
)

// AllFillRules is the full matrix axis, in declaration order.
var AllFillRules = []FillRule{FillEvenOdd, FillNonZero, FillPositive, FillNegative}

func (f FillRule) String() string {
	switch f {
	case FillEvenOdd:
		return "evenodd"
	case FillNonZero:
		return "nonzero"
	case FillPositive:
		return "positive"
	case FillNegative:
		return "negative"
	}
	return fmt.Sprintf("fillrule(%d)", uint8(f))
}

// ParseFillRule resolves a fill rule by its string name.
func ParseFillRule(s string) (FillRule, error) {
	for _, f := range AllFillRules {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown fill rule %q", s)
}

// OverlayRule selects the boolean set-operation. Values match the upstream
// enum order: Subject and Clip are pass-through modes that only resolve
// self-intersections of one input.
type OverlayRule uint8

const (
	OverlaySubject OverlayRule = iota
	OverlayClip
	OverlayIntersect
	OverlayUnion
	OverlayDifference
	OverlayInverseDifference
	OverlayXor
)

// AllOverlayRules is the full matrix axis, in declaration order.
var AllOverlayRules = []OverlayRule{
	OverlaySubject,
	OverlayClip,
	OverlayIntersect,
	OverlayUnion,
	OverlayDifference,
	OverlayInverseDifference,
	OverlayXor,
}

// GraphOverlayRules are the rules extracted from a precomputed graph.
var GraphOverlayRules = []OverlayRule{
	OverlayIntersect,
	OverlayUnion,
	OverlayDifference,
	OverlayXor,
}

func (o OverlayRule) String() string {
	switch o {
	case OverlaySubject:
		return "subject"
	case OverlayClip:
		return "clip"
	case OverlayIntersect:
		return "intersect"
	case OverlayUnion:
		return "union"
	case OverlayDifference:
		return "difference"
	case OverlayInverseDifference:
		return "inverse_difference"
	case OverlayXor:
		return "xor"
	}
	return fmt.Sprintf("overlayrule(%d)", uint8(o))
}

// ParseOverlayRule resolves an overlay rule by its string name.
func ParseOverlayRule(s string) (OverlayRule, error) {
	for _, o := range AllOverlayRules {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown overlay rule %q", s)
}

// ClipRule carries the boundary semantics of the upstream clip API. The
// flags are configuration to preserve verbatim, not derived invariants;
// adapters that have no use for them ignore them.
type ClipRule struct {
	Invert           bool `toml:"invert"`
	BoundaryIncluded bool `toml:"boundary_included"`
}

// DefaultClipRule matches the upstream defaults.
func DefaultClipRule() ClipRule { return ClipRule{Invert: false, BoundaryIncluded: true} }

// Graph is a precomputed overlay structure built once from two inputs and
// a fill rule; multiple overlay results can be extracted without rebuilding.
type Graph interface {
	Extract(rule OverlayRule) (geo.ShapeSet, error)
}

// Engine is the boolean-operation engine under test. Implementations may
// return any of the typed errors below; they must not panic (adapters are
// expected to contain panics from the underlying library).
type Engine interface {
	Name() string
	Overlay(subject, clip geo.ShapeSet, rule OverlayRule, fill FillRule) (geo.ShapeSet, error)
	Simplify(set geo.ShapeSet, fill FillRule) (geo.ShapeSet, error)
	BuildGraph(subject, clip geo.ShapeSet, fill FillRule) (Graph, error)
}

// Factory builds a named engine with the given clip semantics.
type Factory func(clip ClipRule) Engine

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes an engine available by name. Adapter packages call it
// from init; duplicate names panic early.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("engine %q registered twice", name))
	}
	registry[name] = factory
}

// New constructs a registered engine by name.
func New(name string, clip ClipRule) (Engine, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown engine %q (available: %v)", name, Names())
	}
	return factory(clip), nil
}

// Names lists the registered engines in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
