package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

// exit terminates the process with status 1 if err is not nil, unless err is go-flags' help request.
func exit(err error) {
	if err != nil && !flags.WroteHelp(err) {
		os.Exit(1)
	}
}
