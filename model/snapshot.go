package model

import "time"

// Snapshot captures the receptionist phase together with the shared
// allocation state at the moment of a decision. Snapshots are taken under
// the floor lock and handed to the configured persister.
type Snapshot struct {
	ID          string            `json:"id"`
	Seq         int               `json:"seq"`
	Phase       ReceptionistPhase `json:"phase"`
	Assignments []TableID         `json:"assignments"`
	Phases      []GroupPhase      `json:"groupPhases"`
	Waiting     int               `json:"waiting"`
	CreatedAt   time.Time         `json:"createdAt"`
}
