package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out    io.Writer
	source string
}

// NewNetworksRenderer creates a new networks renderer. source names the file the
// endpoints came from, empty for built-ins only.
func NewNetworksRenderer(out io.Writer, source string) *NetworksRenderer {
	return &NetworksRenderer{
		out:    out,
		source: source,
	}
}

// Render renders the list of networks as a table
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	source := "built-in defaults"
	if r.source != "" {
		source = r.source + " [rpc_endpoints]"
	}
	fmt.Fprintf(r.out, "Networks from %s:\n\n", source)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.AppendHeader(table.Row{"Name", "RPC URL", "Chain ID"})

	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	for _, network := range result.Networks {
		status := "-"
		switch {
		case network.Error != nil:
			status = bad.Sprintf("error: %v", network.Error)
		case network.ChainID != 0:
			status = ok.Sprint(network.ChainID)
		}
		t.AppendRow(table.Row{network.Name, network.RPCURL, status})
	}

	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
