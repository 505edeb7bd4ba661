package config

import (
	"fmt"
	"os"
	"strings"

	sharedcfg "github.com/leapstack-labs/crudgen/internal/config"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path is required")
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	for _, target := range sharedcfg.Targets {
		if strings.TrimSpace(c.Layout[target]) == "" {
			return fmt.Errorf("layout.%s is empty\nHint: remove the key from crudgen.yaml to use the default", target)
		}
	}
	return nil
}

// ValidateDirectories checks that the output root exists.
func (c *Config) ValidateDirectories() error {
	info, err := os.Stat(c.BasePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("base path does not exist: %s\nHint: create the directory or use --base-path to specify a different path", c.BasePath)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("base path is not a directory: %s", c.BasePath)
	}
	return nil
}
