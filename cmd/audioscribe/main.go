package main

import (
	"fmt"
	"os"

	"audioscribe/cmd/audioscribe/cmd"
	"audioscribe/internal/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration warning: %v\n", err)
	}

	cmd.Execute()
}
