package main

import (
	"github.com/vango-dev/reactor/internal/config"
)

// loadConfig reads reactor.toml from path, or from the nearest parent
// directory when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.LoadFromWorkingDir()
}
