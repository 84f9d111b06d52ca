package main

import (
	"github.com/runsascoded/dffs/internal/cli"
)

func main() {
	cli.Main(cli.NewGitDiffXCommand)
}
