package main

import (
	"os"

	"github.com/mlihgenel/videotrim-cli/cmd"
	"github.com/mlihgenel/videotrim-cli/internal/ui"
)

var (
	version = "1.0.0"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}
