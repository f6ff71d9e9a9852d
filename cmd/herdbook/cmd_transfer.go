package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) transferCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer ID OWNER",
		Short: "Move an animal into another breeder's herd",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAnimalID(args[0])
			if err != nil {
				return err
			}
			moved, res, err := c.svc.TransferAnimal(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			for _, v := range res.Violations {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", v.Severity, v.Rule, v.Message)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%d) now belongs to %s\n", moved.Name, moved.ID, moved.Owner)
			return nil
		},
	}
}
