package main

import (
	"os"

	"fastllm-build/internal/buildctl"
)

func main() { os.Exit(buildctl.Main()) }
