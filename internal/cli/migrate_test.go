package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_UpAndDown(t *testing.T) {
	testEnv(t)

	stdout, _, err := run(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Current version: 0\n")
	assert.Contains(t, stdout, "up 001_create_conversion_runs")

	stdout, _, err = run(t, "", "migrate", "0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Current version: 1\n")
	assert.Contains(t, stdout, "down 001_create_conversion_runs")
}

func TestMigrate_InvalidVersion(t *testing.T) {
	testEnv(t)

	_, _, err := run(t, "", "migrate", "latest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid version number: latest")
}
