package models

import (
	"time"

	"github.com/angelmondragon/londonshop-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Customer is one shopper who has submitted the checkout form, keyed by email.
type Customer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email     string    `gorm:"column:email;type:text;not null;uniqueIndex:customers_email_key"`
	FirstName string    `gorm:"column:first_name;type:text;not null"`
	LastName  string    `gorm:"column:last_name;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:customers_created_at_idx"`
}

func (Customer) TableName() string { return "customers" }

// PageCursor positions the row in newest-first listings.
func (c Customer) PageCursor() pagination.Cursor {
	return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
}
