package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/londonshop-backend/pkg/pagination"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Cursored rows expose the (created_at, id) pair their listings page on.
type Cursored interface {
	PageCursor() pagination.Cursor
}

// ListNewestFirst pages through the table behind T ordered by created_at and
// then id, both descending. The next cursor points at the last returned row.
func ListNewestFirst[T Cursored](ctx context.Context, b Base, params pagination.Params) (pagination.Page[T], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[T]{}, err
	}

	query := b.DB(ctx).Model(new(T))
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	rows := []T{}
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return pagination.Page[T]{}, err
	}

	items, more := pagination.Trim(rows, params.Limit)
	page := pagination.Page[T]{Items: items}
	if more {
		page.NextCursor = pagination.EncodeCursor(items[len(items)-1].PageCursor())
	}
	return page, nil
}
