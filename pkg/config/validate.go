package config

import (
	"fmt"
	"strings"

	"github.com/coolbeans/ryakugo/pkg/output"
	"github.com/coolbeans/ryakugo/pkg/source"
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Extract.MaxDepth < 0 {
		return fmt.Errorf("extract.max_depth must be >= 0 (got %d)", c.Extract.MaxDepth)
	}
	if err := source.ValidateEncoding(c.Input.Encoding); err != nil {
		return fmt.Errorf("input.encoding: %w", err)
	}
	if _, err := source.NewMatcher(c.Input.Include, c.Input.Exclude); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if err := output.ValidateFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be > 0 (got %d)", c.Batch.Workers)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be >= 0 (got %v)", c.Watch.Debounce)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}
	return nil
}
