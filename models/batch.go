package models

import "time"

// Batch is a crop batch record from the backend's batch table. Only rows with
// IsFinalized set are ever loaded by this client; there is no local mutation
// path for them.
type Batch struct {
	ID             string    `json:"id"`
	CropType       string    `json:"crop_type"`
	Variety        string    `json:"variety"`
	SowingDate     string    `json:"sowing_date"`
	Notes          string    `json:"notes"`
	BlockchainHash string    `json:"blockchain_hash"`
	IsFinalized    bool      `json:"is_finalized"`
	CreatedAt      time.Time `json:"created_at"`
}
