package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/starford/wikictl/internal/apperr"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// describe renders err for the terminal, adding recovery hints where the
// user has something to act on.
func describe(err error) string {
	var partial *apperr.PartialUpdateError
	switch {
	case errors.As(err, &partial):
		return fmt.Sprintf("%v\nThe page was deleted but could not be recreated. "+
			"Its previous content is in %s; fix the cause and run 'create' with that file or your local copy.",
			err, partial.BackupFile)
	case errors.Is(err, apperr.ErrPageNotFound):
		return fmt.Sprintf("%v (check the path and the configured locale)", err)
	default:
		return err.Error()
	}
}

func main() {
	cmd := newRootCommand(os.Stdout, os.Stderr)

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		code := exitCode(err)
		if code == 2 {
			fmt.Fprintf(os.Stderr, "usage error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", describe(err))
		}
		os.Exit(code)
	}
}
