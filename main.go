// Command lostfound is the command line client for the Lost & Found service.
package main

import (
	"os"

	"github.com/tegarsantosa/lost-found-app-president-university/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
