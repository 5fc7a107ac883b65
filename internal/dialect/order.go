package dialect

import (
	"fmt"
	"slices"
	"strings"

	"cobolfront/internal/project/dag"
)

// CycleError reports run-before constraints that cannot all hold.
type CycleError struct {
	Dialects []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dialect run-before constraints form a cycle: %s", strings.Join(e.Dialects, ", "))
}

func key(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Order returns the run order of the requested dialects. Unknown names
// resolve to Default. Registered dialects named in a run-before list are
// pulled in even when not requested, unknown ones are ignored.
//
// Dialects are taken from a queue. One without constraints is appended. One
// whose constraints are all placed goes right before the earliest of them.
// Otherwise its missing constraints are queued, followed by itself again.
func (s *Service) Order(names []string) ([]Dialect, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkCycles(names); err != nil {
		return nil, err
	}

	var out []Dialect
	placed := func(name string) int {
		k := key(name)
		return slices.IndexFunc(out, func(d Dialect) bool { return key(d.Name()) == k })
	}
	queue := slices.Clone(names)
	queued := func(name string) bool {
		k := key(name)
		return slices.ContainsFunc(queue, func(n string) bool { return key(n) == k })
	}

	for len(queue) > 0 {
		d := s.get(queue[0])
		queue = queue[1:]
		if placed(d.Name()) >= 0 {
			continue
		}
		deps := s.knownDeps(d)
		if len(deps) == 0 {
			out = append(out, d)
			continue
		}
		first, pending := -1, false
		for _, dep := range deps {
			i := placed(dep)
			if i < 0 {
				pending = true
				if !queued(dep) {
					queue = append(queue, dep)
				}
				continue
			}
			if first < 0 || i < first {
				first = i
			}
		}
		if pending {
			queue = append(queue, d.Name())
			continue
		}
		out = slices.Insert(out, first, d)
	}
	return out, nil
}

// checkCycles runs Kahn's algorithm over the requested dialects and every
// registered dialect they must precede.
func (s *Service) checkCycles(names []string) error {
	var (
		nodes []dag.Node
		seen  = make(map[string]bool)
		work  = slices.Clone(names)
	)
	for len(work) > 0 {
		d := s.get(work[0])
		work = work[1:]
		k := key(d.Name())
		if seen[k] {
			continue
		}
		seen[k] = true
		deps := s.knownDeps(d)
		before := make([]string, len(deps))
		for i, dep := range deps {
			before[i] = key(dep)
		}
		nodes = append(nodes, dag.Node{Name: k, Before: before})
		work = append(work, deps...)
	}
	if _, blocked := dag.Sort(nodes); blocked != nil {
		return &CycleError{Dialects: blocked}
	}
	return nil
}

// knownDeps returns the registered run-before targets of d.
func (s *Service) knownDeps(d Dialect) []string {
	self := key(d.Name())
	var out []string
	for _, name := range d.RunBefore() {
		k := key(name)
		if k == self {
			continue
		}
		if _, ok := s.dialects[k]; ok {
			out = append(out, s.dialects[k].Name())
		}
	}
	return out
}
