package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event categories accepted by the admin form.
const (
	CategoryOutdoor   = "outdoor"
	CategoryWorkshop  = "workshop"
	CategoryGardening = "gardening"
	CategoryOther     = "other"
)

// Categories lists every valid event category.
var Categories = []string{CategoryOutdoor, CategoryWorkshop, CategoryGardening, CategoryOther}

// Event is a volunteering event published by the organization.
type Event struct {
	ID             string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name           string     `gorm:"size:256;not null;index:event_name_idx" json:"name"`
	Description    *string    `gorm:"type:text" json:"description"`
	Category       string     `gorm:"type:text;not null" json:"category"`
	Location       string     `gorm:"type:text;not null" json:"location"`
	Photo          *string    `gorm:"size:512" json:"photo"`
	StartDate      time.Time  `gorm:"not null;index:event_date_idx,priority:1" json:"startDate"`
	EndDate        time.Time  `gorm:"not null;index:event_date_idx,priority:2" json:"endDate"`
	VolunteerLimit int        `gorm:"default:0" json:"volunteerLimit"` // 0 = no limit set
	CreatedAt      time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt      *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
