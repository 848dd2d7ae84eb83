package main

import (
	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.Execute(version)
}
