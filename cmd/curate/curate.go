package main

import (
	"errors"
	"log"
	"os"

	"tableflip.dev/curate/pkg/commands"
	"tableflip.dev/curate/pkg/commands/options"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		var reported *options.Reported
		if errors.As(err, &reported) {
			os.Exit(1)
		}
		log.Fatalf("error during command execution: %v", err)
	}
}
