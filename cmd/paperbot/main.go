package main

import (
	"os"

	"cryptoPaperBot/cmd/paperbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
