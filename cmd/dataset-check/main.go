// Command dataset-check validates herd dataset files by parsing them and
// replaying them into a scratch in-memory registry with the default rules.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"herdbook/internal/core"
	"herdbook/internal/fixture"
)

var exitFunc = os.Exit

func main() {
	exitFunc(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var strict bool
	cmd := &cobra.Command{
		Use:           "dataset-check FILE...",
		Short:         "Validate herd dataset files",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, files []string) error {
			failed := 0
			for _, path := range files {
				if err := checkFile(cmd.Context(), path, strict, cmd.OutOrStdout()); err != nil {
					failed++
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: FAIL: %v\n", path, err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d dataset(s) failed", failed, len(files))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat rule warnings as failures")
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(stderr, "dataset-check: %v\n", err)
		return 1
	}
	return 0
}

func checkFile(ctx context.Context, path string, strict bool, out io.Writer) error {
	ds, err := fixture.LoadFile(path)
	if err != nil {
		return err
	}
	notes, err := ds.Replay(ctx, core.NewInMemoryService(nil))
	if err != nil {
		return err
	}
	for _, v := range notes {
		_, _ = fmt.Fprintf(out, "%s: %s %s %s: %s\n", path, v.Severity, v.Entity, v.EntityID, v.Message)
	}
	if strict && len(notes) > 0 {
		return fmt.Errorf("%d rule warning(s)", len(notes))
	}
	_, _ = fmt.Fprintf(out, "%s: ok (%d breeders, %d animals, %d transfers)\n", path, len(ds.Breeders), len(ds.Animals), len(ds.Transfers))
	return nil
}
