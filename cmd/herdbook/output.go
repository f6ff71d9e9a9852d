package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"herdbook/pkg/domain"
)

func printAnimals(w io.Writer, animals []domain.AnimalRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tOWNER\tFATHER\tMOTHER")
	for _, a := range animals {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Owner, parentLabel(a.FatherID), parentLabel(a.MotherID))
	}
	return tw.Flush()
}

func printBreeders(w io.Writer, breeders []domain.BreederRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tANIMALS\tIDS")
	for _, b := range breeders {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", b.Name, len(b.AnimalIDs), joinInts(b.AnimalIDs))
	}
	return tw.Flush()
}

func parentLabel(id *int) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprint(*id)
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}

func animalList(animals []domain.AnimalRecord) string {
	parts := make([]string, len(animals))
	for i, a := range animals {
		parts[i] = fmt.Sprintf("%s (%d)", a.Name, a.ID)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
