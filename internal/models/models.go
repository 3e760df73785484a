package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	CategoryID  string    `gorm:"index"                  json:"category_id"`
	Category    string    `json:"category"`
	Title       string    `gorm:"not null"               json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Author      string    `gorm:"not null"               json:"author"`
	Description string    `json:"description"`
	ISBN        string    `json:"isbn,omitempty"`
	Price       float64   `gorm:"not null"               json:"price"`
	BasePrice   float64   `json:"base_price"`
	Currency    string    `gorm:"default:'USD'"          json:"currency"`
	Quantity    int       `gorm:"default:1"              json:"available_quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// User is resolved from the identity provider on every request and is never
// persisted locally. Role is the only authorization input.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
