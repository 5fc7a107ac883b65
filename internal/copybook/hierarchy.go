package copybook

import "cobolfront/internal/source"

// Usage is one active inclusion: the copybook being expanded and where it
// was referenced from.
type Usage struct {
	ID       string
	Name     Name
	Location source.Location
}

// Hierarchy is the stack of copybooks currently being expanded for one
// program.
type Hierarchy struct {
	root  string
	stack []Usage
}

// NewHierarchy starts an empty stack for the program at rootURI.
func NewHierarchy(rootURI string) *Hierarchy {
	return &Hierarchy{root: rootURI}
}

// Root returns the program URI.
func (h *Hierarchy) Root() string {
	return h.root
}

func (h *Hierarchy) Push(u Usage) {
	h.stack = append(h.stack, u)
}

func (h *Hierarchy) Pop() (Usage, bool) {
	if len(h.stack) == 0 {
		return Usage{}, false
	}
	u := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]
	return u, true
}

// Depth returns the number of active inclusions.
func (h *Hierarchy) Depth() int {
	return len(h.stack)
}

// HasRecursion reports whether name is already being expanded.
func (h *Hierarchy) HasRecursion(name Name) bool {
	q := name.Qualified()
	for _, u := range h.stack {
		if u.Name.Qualified() == q {
			return true
		}
	}
	return false
}

// Chain returns a copy of the stack, outermost first.
func (h *Hierarchy) Chain() []Usage {
	out := make([]Usage, len(h.stack))
	copy(out, h.stack)
	return out
}

// CurrentID is the id of the innermost inclusion, "" at program level.
func (h *Hierarchy) CurrentID() string {
	if len(h.stack) == 0 {
		return ""
	}
	return h.stack[len(h.stack)-1].ID
}
