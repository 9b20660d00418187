package demo

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/srg/cut/internal/luahost"
)

//go:embed scripts/*.lua
var scriptsFS embed.FS

// LuaScripts lists the embedded demo scripts in load order.
func LuaScripts() ([]string, error) {
	return fs.Glob(scriptsFS, "scripts/*.lua")
}

// InstallLua loads every embedded demo script into h.
func InstallLua(h *luahost.Host, opts Options) error {
	if err := h.Define("force_failure", opts.ForceFailure); err != nil {
		return err
	}

	names, err := LuaScripts()
	if err != nil {
		return err
	}
	for _, name := range names {
		script, err := scriptsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read demo script %s: %w", name, err)
		}
		if err := h.LoadString(string(script), path.Base(name)); err != nil {
			return err
		}
	}
	return nil
}
