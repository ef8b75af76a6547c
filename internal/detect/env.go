package detect

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Environment is the slice of the machine the detector inspects. Fields
// default to the real system in SystemEnvironment; tests inject temp dirs
// and stub lookups instead.
type Environment struct {
	// LookPath resolves a binary name against the search path.
	LookPath func(file string) (string, error)
	// Home is the user's home directory.
	Home string
	// WorkDir is the workspace directory candidates are detected relative to.
	WorkDir string
	// Getenv reads an environment variable (used for APPDATA on Windows).
	Getenv func(key string) string
	// GOOS selects the platform path conventions.
	GOOS string
}

// SystemEnvironment captures the real machine.
func SystemEnvironment() (Environment, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Environment{}, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return Environment{}, err
	}
	return Environment{
		LookPath: exec.LookPath,
		Home:     home,
		WorkDir:  wd,
		Getenv:   os.Getenv,
		GOOS:     runtime.GOOS,
	}, nil
}

// appConfigDir returns the platform configuration directory for a desktop
// application name (the directory Claude Desktop and VS Code keep user
// config under).
func (e Environment) appConfigDir(app string) string {
	switch e.GOOS {
	case "darwin":
		return filepath.Join(e.Home, "Library", "Application Support", app)
	case "windows":
		if appData := e.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, app)
		}
		return filepath.Join(e.Home, "AppData", "Roaming", app)
	default:
		return filepath.Join(e.Home, ".config", app)
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
