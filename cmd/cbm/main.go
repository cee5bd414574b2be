// Command cbm is a CBM BASIC v2 interpreter.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-cbm/cmd/cbm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
