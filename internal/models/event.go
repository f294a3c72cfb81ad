package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title         string    `gorm:"not null;index" json:"title"`
	Description   *string   `json:"description"`
	StartDatetime time.Time `gorm:"not null" json:"start_datetime"`
	EndDatetime   time.Time `gorm:"not null" json:"end_datetime"`
	LocationName  string    `gorm:"not null" json:"location_name"`
	Address       string    `gorm:"not null" json:"address"`
	Latitude      float64   `gorm:"not null" json:"latitude"`
	Longitude     float64   `gorm:"not null" json:"longitude"`
	Category      *string   `gorm:"index" json:"category"`
	Price         float64   `gorm:"not null;default:0" json:"price"`
	MaxAttendees  *int      `json:"max_attendees"`
	ImageURL      *string   `json:"image_url"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	OrganizerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"organizer_id"`
	Organizer     User      `gorm:"foreignKey:OrganizerID" json:"organizer"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
