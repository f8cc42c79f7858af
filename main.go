package main

import (
	"os"

	"github.com/Rikcr7/ResuMATE/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
