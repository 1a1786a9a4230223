package models

// Team is a department-specific response unit. Teams are not persisted;
// the roster is reseeded fresh for every admin-console session.
type Team struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Department  ComplaintCategory `json:"department"`
	IsAvailable bool              `json:"is_available"`
}
