// Command herdbook maintains a breeder registry and answers pedigree queries
// against it.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	c := newCLI(stdout, stderr)
	root := c.rootCommand()
	root.SetArgs(args)
	err := root.Execute()
	if closeErr := c.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "herdbook: %v\n", err)
		return 1
	}
	return 0
}
