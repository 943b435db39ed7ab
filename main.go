// Package main is the entry point of tapedeck.
package main

import (
	"github.com/samber/lo"
	"github.com/tapedeck-cli/tapedeck/cmd"
	"github.com/tapedeck-cli/tapedeck/config"
	"github.com/tapedeck-cli/tapedeck/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
