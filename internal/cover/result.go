package cover

import (
	"sort"
	"sync"

	"github.com/beetlebugorg/geoconv/internal/hexgrid"
	"github.com/beetlebugorg/geoconv/internal/store"
)

// Result maps grid cells to the attributes of the record owning them.
//
// Set and SetAll overwrite, PadAll only fills gaps. Every call is atomic and
// safe for concurrent use.
type Result struct {
	mu    sync.Mutex
	cells map[hexgrid.Cell]store.Attributes
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{cells: make(map[hexgrid.Cell]store.Attributes)}
}

// Set binds c to attrs, replacing any existing binding.
func (r *Result) Set(c hexgrid.Cell, attrs store.Attributes) {
	r.mu.Lock()
	r.cells[c] = attrs
	r.mu.Unlock()
}

// SetAll binds every cell to attrs, replacing existing bindings.
func (r *Result) SetAll(cells []hexgrid.Cell, attrs store.Attributes) {
	r.mu.Lock()
	for _, c := range cells {
		r.cells[c] = attrs
	}
	r.mu.Unlock()
}

// PadAll inserts every unbound cell with attrs and returns how many were inserted.
func (r *Result) PadAll(cells []hexgrid.Cell, attrs store.Attributes) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range cells {
		if _, ok := r.cells[c]; ok {
			continue
		}
		r.cells[c] = attrs
		n++
	}
	return n
}

// Get returns the attributes bound to c.
func (r *Result) Get(c hexgrid.Cell) (store.Attributes, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.cells[c]
	return a, ok
}

// Len returns the number of bound cells.
func (r *Result) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cells)
}

// Cells returns all bound cells in ascending order.
func (r *Result) Cells() []hexgrid.Cell {
	r.mu.Lock()
	out := make([]hexgrid.Cell, 0, len(r.cells))
	for c := range r.cells {
		out = append(out, c)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Each calls fn for every binding in ascending cell order.
func (r *Result) Each(fn func(c hexgrid.Cell, attrs store.Attributes)) {
	for _, c := range r.Cells() {
		attrs, _ := r.Get(c)
		fn(c, attrs)
	}
}
