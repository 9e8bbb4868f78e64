package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// PruneRenderer renders the outcome of a registry prune
type PruneRenderer struct {
	out    io.Writer
	dryRun bool
}

// NewPruneRenderer creates a new prune renderer
func NewPruneRenderer(out io.Writer, dryRun bool) *PruneRenderer {
	return &PruneRenderer{out: out, dryRun: dryRun}
}

// Render lists stale deployments and whether they were removed
func (r *PruneRenderer) Render(result *usecase.PruneRegistryResult) error {
	if len(result.Stale) == 0 {
		fmt.Fprintf(r.out, "All %d deployment(s) on chain %d are live\n", result.Checked, result.ChainID)
		return nil
	}

	fmt.Fprintf(r.out, "%d of %d deployment(s) on chain %d have no code:\n", len(result.Stale), result.Checked, result.ChainID)
	for _, dep := range result.Stale {
		fmt.Fprintf(r.out, "  %s %s\n", contractStyle.Sprint(dep.ContractName), dep.Address.Hex())
	}

	switch {
	case result.Pruned:
		color.New(color.FgGreen).Fprintf(r.out, "Removed %d deployment(s) from the registry\n", len(result.Stale)) //nolint:errcheck
	case r.dryRun:
		fmt.Fprintln(r.out, "Dry run, registry unchanged")
	default:
		fmt.Fprintln(r.out, "Registry unchanged")
	}
	return nil
}

var _ Renderer[*usecase.PruneRegistryResult] = (*PruneRenderer)(nil)
