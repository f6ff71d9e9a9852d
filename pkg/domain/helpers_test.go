package domain

import (
	"slices"
	"testing"
)

type animalSeed struct {
	id      int
	name    string
	owner   string
	father  int
	mother  int
	parents bool
}

// referenceSeeds mirrors the demonstration herd: a root couple, three litters
// and a late offspring of Hansi with her granddaughter Mini.
var referenceSeeds = []animalSeed{
	{id: 0, name: "Hansi", owner: "Alf"},
	{id: 1, name: "Mausi", owner: "Beate"},
	{id: 2, name: "Fritzi", owner: "David", father: 0, mother: 1, parents: true},
	{id: 3, name: "Frauli", owner: "David", father: 0, mother: 1, parents: true},
	{id: 4, name: "Fratzi", owner: "Christine", father: 0, mother: 1, parents: true},
	{id: 5, name: "Brummer", owner: "Christine", father: 2, mother: 3, parents: true},
	{id: 6, name: "Mini", owner: "Christine", father: 4, mother: 3, parents: true},
	{id: 7, name: "Jack", owner: "Alf", father: 5, mother: 1, parents: true},
	{id: 8, name: "Beate the Second", owner: "Beate", father: 0, mother: 6, parents: true},
}

func mustNoError(t *testing.T, label string, err error) {
	t.Helper()
	if err != nil {
		if label == "" {
			t.Fatalf("unexpected error: %v", err)
		}
		t.Fatalf("%s: %v", label, err)
	}
}

// buildReference assembles the demonstration herd and trades Hansi to David.
func buildReference(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, name := range []string{"Alf", "Beate", "David", "Christine"} {
		_, err := r.AddBreeder(name)
		mustNoError(t, "add breeder "+name, err)
	}
	for _, seed := range referenceSeeds {
		owner, err := r.Breeder(seed.owner)
		mustNoError(t, "owner", err)
		var father, mother *Animal
		if seed.parents {
			father = mustAnimal(t, r, seed.father)
			mother = mustAnimal(t, r, seed.mother)
		}
		_, err = r.AddAnimal(owner, seed.id, seed.name, father, mother)
		mustNoError(t, "add animal "+seed.name, err)
	}
	david, err := r.Breeder("David")
	mustNoError(t, "david", err)
	mustNoError(t, "trade hansi", r.Transfer(mustAnimal(t, r, 0), david))
	return r
}

func mustAnimal(t *testing.T, r *Registry, id int) *Animal {
	t.Helper()
	a, err := r.Animal(id)
	mustNoError(t, "lookup animal", err)
	return a
}

func ids(animals []*Animal) []int {
	out := make([]int, len(animals))
	for i, a := range animals {
		out[i] = a.ID()
	}
	return out
}

func names(breeders []*Breeder) []string {
	out := make([]string, len(breeders))
	for i, b := range breeders {
		out[i] = b.Name()
	}
	return out
}

func assertIDs(t *testing.T, label string, got []*Animal, want ...int) {
	t.Helper()
	if want == nil {
		want = []int{}
	}
	if !slices.Equal(ids(got), want) {
		t.Fatalf("%s: expected %v, got %v", label, want, ids(got))
	}
}
