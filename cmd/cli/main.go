package main

import (
	"fmt"
	"os"

	"github.com/de-tools/vehicle-atlas/pkg/runtime/bootstrap"
	"github.com/de-tools/vehicle-atlas/pkg/runtime/terminal"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Renderers: bootstrap.Renderers(),
		Output:    os.Stdout,
		ErrOutput: os.Stderr,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
