// pkg/registry/registry_test.go
package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	reg := &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: "2026-08-14T09:30:00Z",
		Activities: []Activity{
			{
				ID:                   "find-advocate-matches",
				DisplayName:          "Find Advocate Matches",
				Category:             "matching",
				TaskType:             "find-advocate-matches",
				ImplementationStatus: "verified",
				ErrorCodes:           []string{"MATCH_ENGINE_FAILED"},
				Timeout:              "30s",
				Workflows:            []string{"advocate-request"},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	require.NoError(t, SaveRegistry(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg.Version, loaded.Version)
	require.Len(t, loaded.Activities, 1)
	assert.Equal(t, "find-advocate-matches", loaded.Activities[0].ID)
	assert.Equal(t, []string{"MATCH_ENGINE_FAILED"}, loaded.Activities[0].ErrorCodes)
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPlanned, StatusInProgress, StatusCompleted, StatusVerified} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("done"))
	assert.False(t, ValidStatus(""))
}

func TestFindByID(t *testing.T) {
	reg := &ActivityRegistry{
		Activities: []Activity{
			{ID: "validate-match-quota", Category: "infrastructure"},
			{ID: "build-match-response", Category: "infrastructure"},
		},
	}

	found := reg.FindByID("build-match-response")
	require.NotNil(t, found)
	assert.Equal(t, "infrastructure", found.Category)

	// Returned pointer aliases the slice entry so callers can mutate in place.
	found.ImplementationStatus = "verified"
	assert.Equal(t, "verified", reg.Activities[1].ImplementationStatus)

	assert.Nil(t, reg.FindByID("retire-advocate"))
}

func TestShippedRegistryParses(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)

	assert.Len(t, reg.Activities, 16)

	seen := make(map[string]bool)
	for _, act := range reg.Activities {
		assert.False(t, seen[act.ID], "duplicate id %s", act.ID)
		seen[act.ID] = true
		assert.NotEmpty(t, act.TaskType, "%s missing taskType", act.ID)
		assert.NotEmpty(t, act.Category, "%s missing category", act.ID)
		assert.True(t, ValidStatus(act.ImplementationStatus), "%s has status %q", act.ID, act.ImplementationStatus)
	}

	terminal := reg.FindByID("build-match-response")
	require.NotNil(t, terminal)
	assert.Contains(t, terminal.ErrorCodes, "RESPONSE_SCHEMA_INVALID")
}
