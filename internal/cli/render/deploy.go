package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// DeployRenderer prints the outcome of a deployment. The success line on out is
// the command's only stdout output; details go to diag.
type DeployRenderer struct {
	out  io.Writer
	diag io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out, diag io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out, diag: diag}
}

// Render prints "<ContractName> deployed to: <address>"
func (r *DeployRenderer) Render(result *usecase.DeployContractResult) error {
	dep := result.Deployment
	if _, err := fmt.Fprintf(r.out, "%s deployed to: %s\n", dep.ContractName, dep.Address.Hex()); err != nil {
		return err
	}

	faint := color.New(color.Faint)
	faint.Fprintf(r.diag, "  tx %s, block %d, gas %d\n", dep.TxHash.Hex(), dep.BlockNumber, dep.GasUsed) //nolint:errcheck
	if !result.Recorded {
		color.New(color.FgYellow).Fprintln(r.diag, "  warning: deployment was not recorded in the registry") //nolint:errcheck
	}
	return nil
}

var _ Renderer[*usecase.DeployContractResult] = (*DeployRenderer)(nil)
