package main

import (
	"fmt"
	"os"

	"github.com/Zero-Carbon/backup-org/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the github-org-backup command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
