package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// AnimalOrder selects a comparison policy for animal views.
type AnimalOrder string

// Animal ordering policies. Every policy falls back to ascending identifier so
// distinct animals never compare equal.
const (
	// OrderByID is the natural order: ascending identifier.
	OrderByID AnimalOrder = "id"
	// OrderByName puts longer names first and, among names of equal length,
	// the one with the larger character at the first difference.
	OrderByName AnimalOrder = "name"
	// OrderByAncestorCount puts animals with the most ancestors first.
	OrderByAncestorCount AnimalOrder = "ancestors"
	// OrderByDescendantCount puts animals with the most descendants first.
	OrderByDescendantCount AnimalOrder = "descendants"
)

// BreederOrder selects a comparison policy for breeder views.
type BreederOrder string

// Breeder ordering policies. Ties fall back to ascending name.
const (
	// BreederOrderByInitial is the natural order: first character of the name.
	BreederOrderByInitial BreederOrder = "initial"
	// BreederOrderByNameLength orders by ascending name length.
	BreederOrderByNameLength BreederOrder = "name_length"
	// BreederOrderByHerdSize orders by ascending number of owned animals.
	BreederOrderByHerdSize BreederOrder = "herd_size"
)

// ParseAnimalOrder converts a policy name into an AnimalOrder. Empty selects OrderByID.
func ParseAnimalOrder(s string) (AnimalOrder, error) {
	switch AnimalOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderByID:
		return OrderByID, nil
	case OrderByName:
		return OrderByName, nil
	case OrderByAncestorCount:
		return OrderByAncestorCount, nil
	case OrderByDescendantCount:
		return OrderByDescendantCount, nil
	default:
		return "", fmt.Errorf("unknown animal order %q", s)
	}
}

// ParseBreederOrder converts a policy name into a BreederOrder. Empty selects BreederOrderByInitial.
func ParseBreederOrder(s string) (BreederOrder, error) {
	switch BreederOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", BreederOrderByInitial:
		return BreederOrderByInitial, nil
	case BreederOrderByNameLength:
		return BreederOrderByNameLength, nil
	case BreederOrderByHerdSize:
		return BreederOrderByHerdSize, nil
	default:
		return "", fmt.Errorf("unknown breeder order %q", s)
	}
}

// CompareNames orders names by descending length, then by descending character
// value at the first position where they differ. Lengths and characters are
// counted in runes.
func CompareNames(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) {
		return cmp.Compare(len(rb), len(ra))
	}
	for i := range ra {
		if ra[i] != rb[i] {
			return cmp.Compare(rb[i], ra[i])
		}
	}
	return 0
}

// SortAnimals returns a sorted copy of animals. Count based policies traverse
// the pedigree once per animal and fail if any traversal fails.
func SortAnimals(animals []*Animal, order AnimalOrder) ([]*Animal, error) {
	out := slices.Clone(animals)
	switch order {
	case OrderByID, "":
		slices.SortFunc(out, compareIDs)
	case OrderByName:
		slices.SortFunc(out, func(a, b *Animal) int {
			if c := CompareNames(a.name, b.name); c != 0 {
				return c
			}
			return compareIDs(a, b)
		})
	case OrderByAncestorCount:
		return sortByCountDescending(out, (*Animal).AncestorCount)
	case OrderByDescendantCount:
		return sortByCountDescending(out, (*Animal).DescendantCount)
	default:
		return nil, fmt.Errorf("unknown animal order %q", order)
	}
	return out, nil
}

// AnimalsSortedBy returns the breeder's animals ordered by the given policy.
func (b *Breeder) AnimalsSortedBy(order AnimalOrder) ([]*Animal, error) {
	return SortAnimals(b.Animals(), order)
}

// SortBreeders returns a sorted copy of breeders.
func SortBreeders(breeders []*Breeder, order BreederOrder) ([]*Breeder, error) {
	switch order {
	case BreederOrderByInitial, "":
		out := slices.Clone(breeders)
		sortBreedersByInitial(out)
		return out, nil
	case BreederOrderByNameLength:
		return SortBreedersBy(breeders, func(b *Breeder) int { return utf8.RuneCountInString(b.name) }), nil
	case BreederOrderByHerdSize:
		return SortBreedersBy(breeders, (*Breeder).Count), nil
	default:
		return nil, fmt.Errorf("unknown breeder order %q", order)
	}
}

// SortBreedersBy returns a copy of breeders ordered by ascending key, then name.
func SortBreedersBy(breeders []*Breeder, key func(*Breeder) int) []*Breeder {
	out := slices.Clone(breeders)
	keys := make(map[string]int, len(out))
	for _, b := range out {
		keys[b.name] = key(b)
	}
	slices.SortFunc(out, func(a, b *Breeder) int {
		if c := cmp.Compare(keys[a.name], keys[b.name]); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	return out
}

func compareIDs(a, b *Animal) int { return cmp.Compare(a.id, b.id) }

func sortByCountDescending(out []*Animal, count func(*Animal) (int, error)) ([]*Animal, error) {
	counts := make(map[int]int, len(out))
	for _, a := range out {
		n, err := count(a)
		if err != nil {
			return nil, err
		}
		counts[a.id] = n
	}
	slices.SortFunc(out, func(a, b *Animal) int {
		if c := cmp.Compare(counts[b.id], counts[a.id]); c != 0 {
			return c
		}
		return compareIDs(a, b)
	})
	return out, nil
}

func sortBreedersByInitial(out []*Breeder) {
	slices.SortFunc(out, func(a, b *Breeder) int {
		if c := cmp.Compare(initial(a.name), initial(b.name)); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
}

func initial(name string) rune {
	r, _ := utf8.DecodeRuneInString(name)
	return r
}
