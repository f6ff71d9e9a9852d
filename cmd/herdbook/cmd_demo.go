package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"herdbook/pkg/domain"
)

func (c *cli) demoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Print descendant lists and ranking answers for the loaded herd",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runDemo(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

// runDemo answers the ranking questions of the reference scenario. Questions
// about a breeder or animal missing from a custom dataset fail with ErrNotFound.
func (c *cli) runDemo(ctx context.Context, w io.Writer) error {
	for _, id := range []int{0, 3, 7} {
		animal, err := c.svc.Animal(ctx, id)
		if err != nil {
			return err
		}
		descendants, err := c.svc.Descendants(ctx, id)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "Descendants of %s (%d): %s\n", animal.Name, id, animalList(descendants))
	}

	type question struct {
		text   string
		answer func() (string, error)
	}
	questions := []question{
		{"Which animal of Beate has the most descendants?", func() (string, error) {
			return c.firstOfHerd(ctx, "Beate", domain.OrderByDescendantCount, false)
		}},
		{"Which animal of Alf has the fewest ancestors?", func() (string, error) {
			return c.firstOfHerd(ctx, "Alf", domain.OrderByAncestorCount, true)
		}},
		{"Which animal of Christine comes first by name?", func() (string, error) {
			return c.firstOfHerd(ctx, "Christine", domain.OrderByName, false)
		}},
		{"Which animal has the most ancestors?", func() (string, error) {
			animals, err := c.svc.Animals(ctx, domain.OrderByAncestorCount)
			if err != nil || len(animals) == 0 {
				return "", emptyOr(err, "no animals registered")
			}
			return animals[0].Name, nil
		}},
		{"Which breeder has the longest name?", func() (string, error) {
			breeders, err := c.svc.Breeders(ctx, domain.BreederOrderByNameLength)
			if err != nil || len(breeders) == 0 {
				return "", emptyOr(err, "no breeders registered")
			}
			return breeders[len(breeders)-1].Name, nil
		}},
		{"Which breeder has the fewest animals?", func() (string, error) {
			breeders, err := c.svc.Breeders(ctx, domain.BreederOrderByHerdSize)
			if err != nil || len(breeders) == 0 {
				return "", emptyOr(err, "no breeders registered")
			}
			return breeders[0].Name, nil
		}},
	}
	_, _ = fmt.Fprintln(w, "----")
	for _, q := range questions {
		answer, err := q.answer()
		if err != nil {
			return fmt.Errorf("%s %w", q.text, err)
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", q.text, answer)
	}
	return nil
}

func (c *cli) firstOfHerd(ctx context.Context, breeder string, order domain.AnimalOrder, last bool) (string, error) {
	animals, err := c.svc.BreederAnimals(ctx, breeder, order)
	if err != nil {
		return "", err
	}
	if len(animals) == 0 {
		return "", fmt.Errorf("breeder %s owns no animals", breeder)
	}
	if last {
		return animals[len(animals)-1].Name, nil
	}
	return animals[0].Name, nil
}

func emptyOr(err error, msg string) error {
	if err != nil {
		return err
	}
	return errors.New(msg)
}
