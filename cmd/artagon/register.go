package main

import (
	"github.com/artagon/artagon-cli/internal/cli"
	"github.com/artagon/artagon-cli/internal/ghprotect"
	"github.com/artagon/artagon-cli/internal/history"
	"github.com/artagon/artagon-cli/internal/release"
	"github.com/artagon/artagon-cli/internal/security"
	"github.com/artagon/artagon-cli/internal/snapshot"
)

// registerCommands wires every domain module into the registry. Each module
// registers its own paths through a plain function call; the registry itself
// is constructed once per invocation and injected, never shared globally.
func registerCommands(reg *cli.Registry, lang string) error {
	if err := release.Register(reg, lang); err != nil {
		return err
	}
	if err := snapshot.Register(reg, lang); err != nil {
		return err
	}
	if err := security.Register(reg, lang); err != nil {
		return err
	}
	if err := ghprotect.Register(reg, lang); err != nil {
		return err
	}
	return history.Register(reg)
}
