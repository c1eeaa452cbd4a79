package main

import (
	"fmt"

	"docchat/pkg/version"
)

// Run executes the version command.
func (c *VersionCmd) Run(deps *Dependencies) error {
	fmt.Fprintln(deps.Stdout, version.String())
	return nil
}
