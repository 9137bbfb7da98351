package main

import (
	"os"

	"github.com/felixuxx/bevy-zig-scripting/cmd/enginehost/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
