package models

import (
	"time"

	dbtypes "github.com/angelmondragon/londonshop-backend/pkg/db/types"
	"github.com/angelmondragon/londonshop-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Feedback stores a checkout submission together with the cart it was sent with.
type Feedback struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Email     string            `gorm:"column:email;type:text;not null;index:feedback_email_idx"`
	FirstName string            `gorm:"column:first_name;type:text;not null"`
	LastName  string            `gorm:"column:last_name;type:text;not null"`
	Note      string            `gorm:"column:note;type:text;not null;default:''"`
	CartItems dbtypes.CartLines `gorm:"column:cart_items;type:jsonb;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime;index:feedback_created_at_idx"`
}

func (Feedback) TableName() string { return "feedback" }

// PageCursor positions the row in newest-first listings.
func (f Feedback) PageCursor() pagination.Cursor {
	return pagination.Cursor{CreatedAt: f.CreatedAt, ID: f.ID}
}
