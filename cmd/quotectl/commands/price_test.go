package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"projectType": "ecommerce",
		"industry": "retail",
		"selectedFeatures": ["blog", "blog"],
		"budget": {"range": [5000, 9000], "paymentPreference": "full"}
	}`), 0o600))

	var out bytes.Buffer
	cmd := priceCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())

	got := out.String()
	assert.Contains(t, got, "USD 5,000.00")
	assert.Contains(t, got, "x1.10")
	assert.Contains(t, got, "+USD 200.00")
	assert.Contains(t, got, "-5%")
	// (5000*1.1 + 200) * 0.95
	assert.Contains(t, got, "USD 5,415.00")
}

func TestPriceCommand_RejectsInvalidDraft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"projectType": 7}`), 0o600))

	cmd := priceCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid draft")
}
