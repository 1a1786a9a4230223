package services

import (
	"testing"

	"github.com/citigov/smartcity/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedTeamsTwoPerCategory(t *testing.T) {
	teams := SeedTeams()
	require.Len(t, teams, 2*len(models.AllCategories))

	perDepartment := make(map[models.ComplaintCategory]int)
	for _, team := range teams {
		assert.True(t, team.IsAvailable)
		perDepartment[team.Department]++
	}
	for _, category := range models.AllCategories {
		assert.Equal(t, 2, perDepartment[category], "category %s", category)
	}
}

func TestRosterAcquireOrder(t *testing.T) {
	roster := NewTeamRoster()

	first, ok := roster.Acquire(models.CategoryRoadDamage)
	require.True(t, ok)
	assert.Equal(t, "ROAD-T1", first.ID)

	second, ok := roster.Acquire(models.CategoryRoadDamage)
	require.True(t, ok)
	assert.Equal(t, "ROAD-T2", second.ID)

	_, ok = roster.Acquire(models.CategoryRoadDamage)
	assert.False(t, ok)

	// Other departments are unaffected by road exhaustion.
	water, ok := roster.Acquire(models.CategoryWaterLeakage)
	require.True(t, ok)
	assert.Equal(t, "WATER-T1", water.ID)
}

func TestRosterRelease(t *testing.T) {
	roster := NewTeamRoster()

	team, ok := roster.Acquire(models.CategoryGarbage)
	require.True(t, ok)

	roster.Release(team.ID)
	again, ok := roster.Acquire(models.CategoryGarbage)
	require.True(t, ok)
	assert.Equal(t, team.ID, again.ID)

	// Unknown and empty ids are ignored without panicking.
	roster.Release("GONE-T9")
	roster.Release("")
}

func TestRosterReseed(t *testing.T) {
	roster := NewTeamRoster()
	for _, category := range models.AllCategories {
		_, ok := roster.Acquire(category)
		require.True(t, ok)
	}

	roster.Reseed()
	for _, team := range roster.List() {
		assert.True(t, team.IsAvailable)
	}
}

func TestRosterListIsSnapshot(t *testing.T) {
	roster := NewTeamRoster()
	snapshot := roster.List()
	snapshot[0].IsAvailable = false

	fresh := roster.List()
	assert.True(t, fresh[0].IsAvailable)
}
