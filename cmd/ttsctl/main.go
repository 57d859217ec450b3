package main

import (
	"os"

	"ttsd/internal/ttsctl"
)

func main() { os.Exit(ttsctl.Main()) }
