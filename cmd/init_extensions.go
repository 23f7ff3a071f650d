/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init_extensions.go handles extension initialisation and command
// registration.
//
// Extensions register during init() but are not initialised until the
// first command that needs the catalog runs. The service is created once
// and shared across all extensions via the Context.

package cmd

import (
	"fmt"
	"sync"

	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/beamtime"
	"github.com/jpl-au/beamtime/internal/log"
)

// noStoreCommands lists commands that bypass automatic store initialisation.
var noStoreCommands map[string]bool

// authorRequiredCommands lists commands whose writes must be attributed.
var authorRequiredCommands = map[string]bool{
	"seed": true,
}

// buildNoStoreCommands returns the bootstrap commands plus every command
// named by an extension implementing extension.Storeless.
func buildNoStoreCommands() map[string]bool {
	cmds := map[string]bool{
		"init":    true,
		"guide":   true,
		"config":  true,
		"version": true,
	}

	for _, ext := range extension.All() {
		if s, ok := ext.(extension.Storeless); ok {
			for _, name := range s.NoStoreCommands() {
				cmds[name] = true
			}
		}
	}

	return cmds
}

var (
	extContext extension.Context
	extService *beamtime.Service
	initOnce   sync.Once
	initErr    error
)

// initExtensions opens the catalog and hands it to every Initializable
// extension. It runs at most once per process.
func initExtensions() error {
	initOnce.Do(func() {
		svc, err := beamtime.New(DB(), Dir())
		if err != nil {
			initErr = fmt.Errorf("opening database: %w", err)
			return
		}
		extService = svc

		log.SetProject(svc.Project())

		extContext = extension.NewContext(svc, svc.DB(), svc.Config())
		svc.SetExtensionContext(extContext)

		for _, ext := range extension.All() {
			if init, ok := ext.(extension.Initializable); ok {
				if err := init.Init(extContext); err != nil {
					initErr = fmt.Errorf("init extension %s: %w", ext.Name(), err)
					return
				}
			}
		}
	})
	return initErr
}

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}
		noStoreCommands = buildNoStoreCommands()
	})
}
