package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/trebuchet-org/deployer/internal/domain/config"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out    io.Writer
	source string
}

// NewConfigRenderer creates a new config renderer. source names the file the
// RPC endpoints came from.
func NewConfigRenderer(out io.Writer, source string) *ConfigRenderer {
	return &ConfigRenderer{
		out:    out,
		source: source,
	}
}

// relativePath returns path relative to the working directory when possible
func relativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return rel
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintf(r.out, "No %s found, built-in defaults apply\n", relativePath(result.ConfigPath))
		return nil
	}

	fmt.Fprintln(r.out, "Current config:")
	unset := color.New(color.Faint).Sprint("(not set)")
	for _, key := range config.ValidConfigKeys() {
		value := result.Config.Get(key)
		if value == "" {
			value = unset
		}
		fmt.Fprintf(r.out, "  %-9s %s\n", key+":", value)
	}

	if r.source != "" {
		fmt.Fprintf(r.out, "\nRPC endpoints: %s\n", r.source)
	}
	fmt.Fprintf(r.out, "Config file:   %s\n", relativePath(result.ConfigPath))
	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	color.New(color.FgGreen).Fprintf(r.out, "Set %s to %s\n", result.Key, result.Value) //nolint:errcheck
	fmt.Fprintf(r.out, "Config saved to %s\n", relativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	if result.RemovedValue == "" {
		fmt.Fprintf(r.out, "%s was not set\n", result.Key)
		return nil
	}
	color.New(color.FgGreen).Fprintf(r.out, "Removed %s (was %s)\n", result.Key, result.RemovedValue) //nolint:errcheck
	return nil
}
