// Package domain contains the core domain models of the shared-library build graph.
package domain

import (
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// Plan is the build graph of one invocation: every source maps onto one object,
// and every object feeds the single library.
type Plan struct {
	library string
	objects map[string]ObjectArtifact
	order   []string
}

// NewPlan creates an empty plan that links into library.
func NewPlan(library string) *Plan {
	return &Plan{
		library: library,
		objects: make(map[string]ObjectArtifact),
	}
}

// AddSource adds a source and its derived object to the plan.
// It returns an error if the path is not a source or the object is already claimed.
func (p *Plan) AddSource(src SourceFile) error {
	if !IsSourcePath(src.Path) {
		return zerr.With(zerr.Wrap(ErrNotSource, "cannot plan source"), "path", src.Path)
	}
	obj := src.Object()
	if existing, ok := p.objects[obj.Path]; ok {
		err := zerr.With(zerr.Wrap(ErrDuplicateObject, "cannot plan source"), "object", obj.Path)
		return zerr.With(err, "claimed_by", existing.Source)
	}
	p.objects[obj.Path] = obj

	idx, _ := slices.BinarySearch(p.order, obj.Path)
	p.order = slices.Insert(p.order, idx, obj.Path)
	return nil
}

// Len returns the number of sources in the plan.
func (p *Plan) Len() int {
	return len(p.order)
}

// Objects returns an iterator that yields object artifacts ordered by path.
func (p *Plan) Objects() iter.Seq[ObjectArtifact] {
	return func(yield func(ObjectArtifact) bool) {
		for _, path := range p.order {
			if !yield(p.objects[path]) {
				return
			}
		}
	}
}

// Library returns the library artifact fed by every object in the plan.
func (p *Plan) Library() LibraryArtifact {
	return LibraryArtifact{
		Path:    p.library,
		Objects: slices.Clone(p.order),
	}
}

// PlanSources builds a plan from discovered sources.
func PlanSources(library string, sources []SourceFile) (*Plan, error) {
	p := NewPlan(library)
	for _, src := range sources {
		if err := p.AddSource(src); err != nil {
			return nil, err
		}
	}
	return p, nil
}
