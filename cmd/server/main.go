// Meeting minutes server - turns recordings or raw text into transcripts and summaries
package main

import (
	"fmt"
	"os"
)

// ExitError is the status for any failed command.
const ExitError = 1

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitError)
	}
}
