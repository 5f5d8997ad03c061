package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupDeployedClient initializes a working directory with a deployed
// pool, oracle and user account, returning the config path.
func setupDeployedClient(t *testing.T) string {
	t.Helper()
	chdir(t, t.TempDir())
	writeComponentArtifacts(t)
	configPath := "lendclient.yaml"

	for _, args := range [][]string{
		{"deploy-pool"},
		{"deploy-oracle"},
		{"create-account"},
	} {
		_, err := runClientCommand(t, configPath, args...)
		require.NoError(t, err)
	}
	return configPath
}

func TestDepositCommand(t *testing.T) {
	configPath := setupDeployedClient(t)

	buf, err := runClientCommand(t, configPath, "deposit", "--asset-id", "1", "--amount", "1000")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ Submitted deposit transaction")
	assert.Contains(t, buf.String(), "USDC")
}

func TestTxCommands_AllScripts(t *testing.T) {
	configPath := setupDeployedClient(t)

	for _, args := range [][]string{
		{"withdraw", "--asset-id", "1", "--amount", "10"},
		{"supply-collateral", "--asset-id", "3", "--amount", "5"},
		{"borrow", "--asset-id", "2", "--amount", "50"},
		{"repay", "--asset-id", "2", "--amount", "50"},
		{"update-price", "--asset-id", "1", "--price", "100000000"},
	} {
		buf, err := runClientCommand(t, configPath, args...)
		require.NoError(t, err, "%v", args)
		assert.Contains(t, buf.String(), "✓ Submitted "+args[0])
	}
}

func TestTxCommand_JSON(t *testing.T) {
	configPath := setupDeployedClient(t)

	buf, err := runClientCommand(t, configPath, "deposit", "--asset-id", "1", "--amount", "1000", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestTxCommand_UnknownAsset(t *testing.T) {
	configPath := setupDeployedClient(t)

	buf, err := runClientCommand(t, configPath, "deposit", "--asset-id", "42", "--amount", "1000")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "unknown asset")
}

func TestTxCommand_ZeroAmount(t *testing.T) {
	configPath := setupDeployedClient(t)

	_, err := runClientCommand(t, configPath, "borrow", "--asset-id", "1", "--amount", "0")
	require.Error(t, err)
}

func TestTxCommand_RequiresFlags(t *testing.T) {
	configPath := setupDeployedClient(t)

	_, err := runClientCommand(t, configPath, "deposit")
	require.Error(t, err, "asset-id and amount are required")
}

func TestTxCommand_NoUserAccount(t *testing.T) {
	chdir(t, t.TempDir())

	buf, err := runClientCommand(t, "lendclient.yaml", "deposit", "--asset-id", "1", "--amount", "10")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "create-account")
}

func TestUpdatePriceCommand_NoOracle(t *testing.T) {
	chdir(t, t.TempDir())

	buf, err := runClientCommand(t, "lendclient.yaml", "update-price", "--asset-id", "1", "--price", "1")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "deploy-oracle")
}
