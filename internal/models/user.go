package models

import "time"

// User mirrors an identity-provider account. Only the external id is stored;
// names and avatars are fetched from the provider at read time.
type User struct {
	ID        string     `gorm:"size:256;primaryKey" json:"id"`
	CreatedAt time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}
