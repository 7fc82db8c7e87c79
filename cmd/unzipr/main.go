package main

import (
	"fmt"
	"os"

	"github.com/nguyengg/unzipr/internal/cmd"
)

func main() {
	c := &cmd.Unzipr{}

	// go-flags prints its own parsing errors; everything else is printed here as a single line.
	rest, err := cmd.NewParser(c).Parse()
	if err == nil {
		if err = c.Execute(rest); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "unzipr: %v\n", err)
		}
	}

	exit(err)
}
