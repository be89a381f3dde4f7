package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/neuroloc/internal/cli"
	"github.com/ppiankov/neuroloc/internal/model"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var cfgErr *model.ConfigurationError
		if errors.As(err, &cfgErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
