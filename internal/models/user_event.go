package models

import "time"

// UserEvent is the membership row: its existence means the user joined the event.
type UserEvent struct {
	UserID    string    `gorm:"size:256;primaryKey;autoIncrement:false;index:user_event_user_idx" json:"userId"`
	EventID   string    `gorm:"type:varchar(36);primaryKey;autoIncrement:false;index:user_event_event_idx" json:"eventId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`

	User  *User  `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
	Event *Event `gorm:"foreignKey:EventID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}
