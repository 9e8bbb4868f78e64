package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/deployer/internal/domain/models"
	"github.com/trebuchet-org/deployer/internal/usecase"
	"gopkg.in/yaml.v3"
)

func disableColor(t *testing.T) {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })
}

func testDeployments() []*models.Deployment {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []*models.Deployment{
		{
			ID:           "31337/0x5FbDB2315678afecb367f032d93F642f64180aa3",
			ContractName: "TrustX",
			Address:      common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
			ChainID:      31337,
			Network:      "localhost",
			TxHash:       common.HexToHash("0xaa"),
			BlockNumber:  1,
			CreatedAt:    created,
		},
		{
			ID:           "11155111/0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
			ContractName: "TrustX",
			Address:      common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"),
			ChainID:      11155111,
			Network:      "sepolia",
			BlockNumber:  42,
			CreatedAt:    created,
		},
	}
}

func TestDeployRenderer(t *testing.T) {
	disableColor(t)

	tests := []struct {
		name     string
		recorded bool
		wantDiag string
	}{
		{"recorded", true, ""},
		{"not recorded", false, "not recorded in the registry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, diag bytes.Buffer
			result := &usecase.DeployContractResult{Deployment: testDeployments()[0], Recorded: tt.recorded}

			require.NoError(t, NewDeployRenderer(&out, &diag).Render(result))

			assert.Equal(t, "TrustX deployed to: 0x5FbDB2315678afecb367f032d93F642f64180aa3\n", out.String())
			assert.Contains(t, diag.String(), "block 1")
			if tt.wantDiag != "" {
				assert.Contains(t, diag.String(), tt.wantDiag)
			} else {
				assert.NotContains(t, diag.String(), "warning")
			}
		})
	}
}

func TestDeploymentsRenderer(t *testing.T) {
	disableColor(t)
	result := &usecase.DeploymentListResult{
		Deployments: testDeployments(),
		Summary:     usecase.DeploymentSummary{Total: 2},
	}

	t.Run("table", func(t *testing.T) {
		var out bytes.Buffer
		r, err := NewDeploymentsRenderer(&out, "")
		require.NoError(t, err)
		require.NoError(t, r.Render(result))

		assert.Contains(t, out.String(), "Localhost (chain 31337)")
		assert.Contains(t, out.String(), "Sepolia (chain 11155111)")
		assert.Contains(t, out.String(), "0x5FbDB2315678afecb367f032d93F642f64180aa3")
		assert.Contains(t, out.String(), "2 deployment(s) on 2 chain(s)")
	})

	t.Run("empty table", func(t *testing.T) {
		var out bytes.Buffer
		r, err := NewDeploymentsRenderer(&out, FormatTable)
		require.NoError(t, err)
		require.NoError(t, r.Render(&usecase.DeploymentListResult{}))
		assert.Equal(t, "No deployments found\n", out.String())
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		r, err := NewDeploymentsRenderer(&out, FormatJSON)
		require.NoError(t, err)
		require.NoError(t, r.Render(result))

		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, "0x5fbdb2315678afecb367f032d93f642f64180aa3", decoded[0]["address"])
		assert.Equal(t, float64(31337), decoded[0]["chainId"])
	})

	t.Run("empty json is an array", func(t *testing.T) {
		var out bytes.Buffer
		r, err := NewDeploymentsRenderer(&out, FormatJSON)
		require.NoError(t, err)
		require.NoError(t, r.Render(&usecase.DeploymentListResult{}))
		assert.Equal(t, "[]\n", out.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		r, err := NewDeploymentsRenderer(&out, FormatYAML)
		require.NoError(t, err)
		require.NoError(t, r.Render(result))

		var decoded []map[string]any
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, "sepolia", decoded[1]["network"])
		assert.Equal(t, "0x5fbdb2315678afecb367f032d93f642f64180aa3", decoded[0]["address"])
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := NewDeploymentsRenderer(&bytes.Buffer{}, "xml")
		assert.ErrorContains(t, err, "unknown format")
	})
}

func TestNetworksRenderer(t *testing.T) {
	disableColor(t)
	var out bytes.Buffer

	err := NewNetworksRenderer(&out, "foundry.toml").Render(&usecase.ListNetworksResult{
		Networks: []usecase.NetworkStatus{
			{Name: "localhost", RPCURL: "http://127.0.0.1:8545", ChainID: 31337},
			{Name: "sepolia", Error: errors.New("unset variable")},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Networks from foundry.toml [rpc_endpoints]")
	assert.Contains(t, out.String(), "31337")
	assert.Contains(t, out.String(), "error: unset variable")
}
