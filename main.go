package main

import (
	"os"

	"github.com/campushq/voicedesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
