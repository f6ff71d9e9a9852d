package domain

import "slices"

// Parents returns the known parents, father first.
func (a *Animal) Parents() []*Animal {
	out := make([]*Animal, 0, 2)
	if a.father != nil {
		out = append(out, a.father)
	}
	if a.mother != nil {
		out = append(out, a.mother)
	}
	return out
}

// Children returns the direct offspring in ascending identifier order.
func (a *Animal) Children() []*Animal { return sortedAnimals(a.children) }

// Ancestors returns every animal reachable through father and mother links,
// each listed once in ascending identifier order. Pedigree data containing a
// cycle yields ErrMalformedGraph.
func (a *Animal) Ancestors() ([]*Animal, error) {
	return closure(a, (*Animal).Parents)
}

// Descendants returns every animal reachable through children links, each
// listed once in ascending identifier order.
func (a *Animal) Descendants() ([]*Animal, error) {
	return closure(a, (*Animal).Children)
}

// AncestorCount returns the size of the ancestor closure.
func (a *Animal) AncestorCount() (int, error) {
	ancestors, err := a.Ancestors()
	return len(ancestors), err
}

// DescendantCount returns the size of the descendant closure.
func (a *Animal) DescendantCount() (int, error) {
	descendants, err := a.Descendants()
	return len(descendants), err
}

// IsAncestorOf reports whether a appears in other's ancestor closure.
func (a *Animal) IsAncestorOf(other *Animal) (bool, error) {
	ancestors, err := other.Ancestors()
	if err != nil {
		return false, err
	}
	for _, candidate := range ancestors {
		if candidate.id == a.id {
			return true, nil
		}
	}
	return false, nil
}

// walker performs a depth-first traversal along next, collecting every reached
// node once. Nodes on the current path are tracked so a cycle fails fast
// instead of recursing forever.
type walker struct {
	next   func(*Animal) []*Animal
	seen   map[int]*Animal
	done   map[int]bool
	onPath map[int]bool
	path   []int
}

func closure(start *Animal, next func(*Animal) []*Animal) ([]*Animal, error) {
	if start == nil {
		return nil, nil
	}
	w := &walker{
		next:   next,
		seen:   make(map[int]*Animal),
		done:   make(map[int]bool),
		onPath: make(map[int]bool),
	}
	if err := w.walk(start); err != nil {
		return nil, err
	}
	return sortedAnimals(w.seen), nil
}

func (w *walker) walk(a *Animal) error {
	w.onPath[a.id] = true
	w.path = append(w.path, a.id)
	for _, n := range w.next(a) {
		if w.onPath[n.id] {
			start := slices.Index(w.path, n.id)
			cycle := append(slices.Clone(w.path[start:]), n.id)
			return ErrMalformedGraph{AnimalID: n.id, Path: cycle}
		}
		w.seen[n.id] = n
		if w.done[n.id] {
			continue
		}
		if err := w.walk(n); err != nil {
			return err
		}
	}
	w.path = w.path[:len(w.path)-1]
	delete(w.onPath, a.id)
	w.done[a.id] = true
	return nil
}
