package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RegistrationStatusRegistered = "registered"
	RegistrationStatusCancelled  = "cancelled"
	RegistrationStatusAttended   = "attended"
)

// EventRegistration records a user's intent to attend an event. The composite
// unique index makes concurrent duplicate registrations impossible at the
// storage layer; handlers still pre-check for the friendlier error message.
type EventRegistration struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RegistrationDate time.Time `gorm:"not null" json:"registration_date"`
	Status           string    `gorm:"not null;default:'registered'" json:"status"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_event" json:"user_id"`
	EventID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_event" json:"event_id"`
	User             User      `gorm:"foreignKey:UserID" json:"-"`
	Event            Event     `gorm:"foreignKey:EventID" json:"-"`
}

func (EventRegistration) TableName() string {
	return "event_registrations"
}

func (r *EventRegistration) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.RegistrationDate.IsZero() {
		r.RegistrationDate = time.Now().UTC()
	}
	if r.Status == "" {
		r.Status = RegistrationStatusRegistered
	}
	return
}
