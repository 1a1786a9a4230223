package models

import (
	"time"

	"gorm.io/gorm"
)

// Model is the base for persisted records with numeric keys.
type Model struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Blacklist holds revoked access tokens.
type Blacklist struct {
	Model
	Token string `json:"token" gorm:"index"`
}
