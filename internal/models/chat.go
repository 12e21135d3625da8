package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat is one message posted in an event's chat room.
//
// Messages can be addressed either by ID or by the (event, user, date_time)
// natural key. Two messages from the same sender with an identical
// microsecond timestamp share a natural key; only ID tells them apart.
type Chat struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	EventID   string     `gorm:"type:varchar(36);not null;index:chat_event_idx" json:"eventId"`
	UserID    string     `gorm:"size:256;not null;index:chat_user_idx" json:"userId"`
	DateTime  time.Time  `gorm:"not null;index:chat_datetime_idx" json:"dateTime"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`

	Event *Event `gorm:"foreignKey:EventID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	User  *User  `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.DateTime.IsZero() {
		c.DateTime = Now()
	}
	return nil
}

// Now returns the current time in UTC truncated to the microsecond, the
// finest precision every supported database keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
