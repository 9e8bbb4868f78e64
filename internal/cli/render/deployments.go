package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/trebuchet-org/deployer/internal/domain/models"
	"github.com/trebuchet-org/deployer/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Output formats supported by the list command
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Color styles for table format
var (
	chainHeader    = color.New(color.BgCyan, color.FgBlack, color.Bold)
	contractStyle  = color.New(color.FgGreen, color.Bold)
	addressStyle   = color.New(color.FgWhite)
	timestampStyle = color.New(color.Faint)
)

// DeploymentsRenderer renders deployment lists
type DeploymentsRenderer struct {
	out    io.Writer
	format string
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, format string) (*DeploymentsRenderer, error) {
	switch format {
	case "", FormatTable:
		format = FormatTable
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown format %q (valid: table, json, yaml)", format)
	}
	return &DeploymentsRenderer{out: out, format: format}, nil
}

// Render writes the deployments in the configured format
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(nonNil(result.Deployments))
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		defer enc.Close() //nolint:errcheck
		return enc.Encode(nonNil(result.Deployments))
	default:
		return r.renderTable(result)
	}
}

func (r *DeploymentsRenderer) renderTable(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	byChain := lo.GroupBy(result.Deployments, func(d *models.Deployment) uint64 { return d.ChainID })
	chains := lo.Keys(byChain)
	sort.Slice(chains, func(i, j int) bool { return chains[i] < chains[j] })

	title := cases.Title(language.English)
	for i, chainID := range chains {
		deps := byChain[chainID]
		if i > 0 {
			fmt.Fprintln(r.out)
		}

		network := lo.FindOrElse(deps, deps[0], func(d *models.Deployment) bool { return d.Network != "" }).Network
		header := fmt.Sprintf(" chain %d ", chainID)
		if network != "" {
			header = fmt.Sprintf(" %s (chain %d) ", title.String(network), chainID)
		}
		fmt.Fprintln(r.out, chainHeader.Sprint(header))

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.Style().Options.SeparateRows = false
		t.Style().Options.DrawBorder = false
		t.Style().Options.SeparateHeader = false
		t.Style().Options.SeparateColumns = false
		t.Style().Box = table.BoxStyle{
			PaddingRight: "   ",
		}
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignLeft},
			{Number: 2, Align: text.AlignLeft},
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignLeft},
		})

		for _, dep := range deps {
			t.AppendRow(table.Row{
				contractStyle.Sprint(dep.ContractName),
				addressStyle.Sprint(dep.Address.Hex()),
				fmt.Sprintf("#%d", dep.BlockNumber),
				timestampStyle.Sprint(dep.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			})
		}
		fmt.Fprintln(r.out, t.Render())
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%d deployment(s) on %d chain(s)\n", result.Summary.Total, len(chains))
	return nil
}

func nonNil(deps []*models.Deployment) []*models.Deployment {
	if deps == nil {
		return []*models.Deployment{}
	}
	return deps
}

var _ Renderer[*usecase.DeploymentListResult] = (*DeploymentsRenderer)(nil)
