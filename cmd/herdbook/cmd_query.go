package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"herdbook/pkg/domain"
)

func (c *cli) animalsCommand() *cobra.Command {
	var order, breeder string
	cmd := &cobra.Command{
		Use:   "animals",
		Short: "List animals, optionally of a single breeder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := domain.ParseAnimalOrder(order)
			if err != nil {
				return err
			}
			var animals []domain.AnimalRecord
			if breeder != "" {
				animals, err = c.svc.BreederAnimals(cmd.Context(), breeder, policy)
			} else {
				animals, err = c.svc.Animals(cmd.Context(), policy)
			}
			if err != nil {
				return err
			}
			return printAnimals(cmd.OutOrStdout(), animals)
		},
	}
	cmd.Flags().StringVar(&order, "order", string(domain.OrderByID), "ordering: id|name|ancestors|descendants")
	cmd.Flags().StringVar(&breeder, "breeder", "", "only list animals owned by this breeder")
	return cmd
}

func (c *cli) breedersCommand() *cobra.Command {
	var order string
	cmd := &cobra.Command{
		Use:   "breeders",
		Short: "List breeders and their herds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := domain.ParseBreederOrder(order)
			if err != nil {
				return err
			}
			breeders, err := c.svc.Breeders(cmd.Context(), policy)
			if err != nil {
				return err
			}
			return printBreeders(cmd.OutOrStdout(), breeders)
		},
	}
	cmd.Flags().StringVar(&order, "order", string(domain.BreederOrderByInitial), "ordering: initial|name_length|herd_size")
	return cmd
}

func (c *cli) ancestorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ancestors ID",
		Short: "List every ancestor of an animal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAnimalID(args[0])
			if err != nil {
				return err
			}
			animals, err := c.svc.Ancestors(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printAnimals(cmd.OutOrStdout(), animals)
		},
	}
}

func (c *cli) descendantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "descendants ID",
		Short: "List every descendant of an animal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAnimalID(args[0])
			if err != nil {
				return err
			}
			animals, err := c.svc.Descendants(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printAnimals(cmd.OutOrStdout(), animals)
		},
	}
}

func parseAnimalID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid animal id %q", arg)
	}
	return id, nil
}
