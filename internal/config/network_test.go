package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/deployer/internal/domain"
)

func TestNetworkResolver(t *testing.T) {
	resolver := NewNetworkResolver(map[string]string{
		"localhost": "http://127.0.0.1:8545",
		"sepolia":   "https://sepolia.example.org",
		"broken":    "",
		"keyless":   "https://mainnet.example.org/v2/${DEPLOYER_TEST_MISSING_KEY}",
	})

	tests := []struct {
		name     string
		network  string
		wantURL  string
		wantErr  error
		anyError bool
	}{
		{name: "local", network: "localhost", wantURL: "http://127.0.0.1:8545"},
		{name: "remote", network: "sepolia", wantURL: "https://sepolia.example.org"},
		{name: "missing", network: "mainnet", wantErr: domain.ErrNetworkNotFound},
		{name: "empty url", network: "broken", anyError: true},
		{name: "unset variable", network: "keyless", anyError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			network, err := resolver.Resolve(tt.network)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyError:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.network, network.Name)
				assert.Equal(t, tt.wantURL, network.RPCURL)
			}
		})
	}

	assert.Equal(t, []string{"broken", "keyless", "localhost", "sepolia"}, resolver.Names())
}

func TestExpandEndpoint(t *testing.T) {
	t.Setenv("DEPLOYER_TEST_HOST", "rpc.example.org")
	t.Setenv("DEPLOYER_TEST_EMPTY", "")

	assert.Equal(t, "https://rpc.example.org/v2/", expandEndpoint("https://${DEPLOYER_TEST_HOST}/v2/$DEPLOYER_TEST_EMPTY"))
	assert.Equal(t, "https://${DEPLOYER_TEST_HOST}/v2/${DEPLOYER_TEST_NOPE}", expandEndpoint("https://${DEPLOYER_TEST_HOST}/v2/${DEPLOYER_TEST_NOPE}"))
	assert.Equal(t, []string{"DEPLOYER_TEST_NOPE"}, unsetVariables("$DEPLOYER_TEST_NOPE/${DEPLOYER_TEST_NOPE}/${DEPLOYER_TEST_HOST}"))
	assert.Empty(t, unsetVariables("http://127.0.0.1:8545"))
}
