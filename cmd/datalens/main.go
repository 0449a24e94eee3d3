// Command datalens runs the dataset preview, statistics and report
// operations against a local CSV file.
package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/DataLens/internal/core"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, "Error:", core.FormatUserError(err))
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
