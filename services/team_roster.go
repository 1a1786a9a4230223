package services

import (
	"sync"

	"github.com/citigov/smartcity/models"
)

// SeedTeams returns the fixed dispatch roster: two teams per category, all
// available, in a deterministic enumeration order. The roster is never
// persisted; reseeding wipes any in-flight assignment state.
func SeedTeams() []models.Team {
	return []models.Team{
		{ID: "ROAD-T1", Name: "Road Squad Alpha", Department: models.CategoryRoadDamage, IsAvailable: true},
		{ID: "ROAD-T2", Name: "Road Squad Beta", Department: models.CategoryRoadDamage, IsAvailable: true},
		{ID: "WATER-T1", Name: "Hydraulic Crew 1", Department: models.CategoryWaterLeakage, IsAvailable: true},
		{ID: "WATER-T2", Name: "Hydraulic Crew 2", Department: models.CategoryWaterLeakage, IsAvailable: true},
		{ID: "GARB-T1", Name: "Sanitation Unit 1", Department: models.CategoryGarbage, IsAvailable: true},
		{ID: "GARB-T2", Name: "Sanitation Unit 2", Department: models.CategoryGarbage, IsAvailable: true},
		{ID: "DRAIN-T1", Name: "Drainage Detail 1", Department: models.CategoryDrainage, IsAvailable: true},
		{ID: "DRAIN-T2", Name: "Drainage Detail 2", Department: models.CategoryDrainage, IsAvailable: true},
		{ID: "LIGHT-T1", Name: "Lighting Crew 1", Department: models.CategoryStreetLight, IsAvailable: true},
		{ID: "LIGHT-T2", Name: "Lighting Crew 2", Department: models.CategoryStreetLight, IsAvailable: true},
		{ID: "OTHER-T1", Name: "Support Team 1", Department: models.CategoryOther, IsAvailable: true},
		{ID: "OTHER-T2", Name: "Support Team 2", Department: models.CategoryOther, IsAvailable: true},
	}
}

// TeamRoster tracks response-team availability in memory.
type TeamRoster struct {
	mu    sync.Mutex
	teams []models.Team
}

func NewTeamRoster() *TeamRoster {
	return &TeamRoster{teams: SeedTeams()}
}

// Reseed restores the roster to its seed state, marking every team
// available again.
func (r *TeamRoster) Reseed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams = SeedTeams()
}

// List returns a snapshot of the roster in enumeration order.
func (r *TeamRoster) List() []models.Team {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Team, len(r.teams))
	copy(out, r.teams)
	return out
}

// Acquire claims the first available team servicing the department,
// first-match in roster order. The second return is false when every team
// of that department is busy.
func (r *TeamRoster) Acquire(department models.ComplaintCategory) (models.Team, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.teams {
		if r.teams[i].Department == department && r.teams[i].IsAvailable {
			r.teams[i].IsAvailable = false
			return r.teams[i], true
		}
	}
	return models.Team{}, false
}

// Release marks the team available again. Unknown ids are ignored: the
// roster may have been reseeded since the assignment was made.
func (r *TeamRoster) Release(teamID string) {
	if teamID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.teams {
		if r.teams[i].ID == teamID {
			r.teams[i].IsAvailable = true
			return
		}
	}
}
