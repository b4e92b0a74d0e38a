package main

import (
	"context"
	"fmt"
	"os"

	"localboard/internal/cli"
	"localboard/internal/config"
)

func main() {
	cfg := config.Load()

	if err := cli.NewRootCommand(cfg).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
