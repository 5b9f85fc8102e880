package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/londonshop-backend/internal/repo"
	"github.com/angelmondragon/londonshop-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/londonshop-backend/pkg/db/types"
	"github.com/angelmondragon/londonshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence surface the service depends on.
type Store interface {
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	CreateFeedback(ctx context.Context, entry *models.Feedback) error
	ListFeedback(ctx context.Context, params pagination.Params) (pagination.Page[models.Feedback], error)
	ListCustomers(ctx context.Context, params pagination.Params) (pagination.Page[models.Customer], error)
}

// Repository persists customers and feedback with GORM.
type Repository struct {
	repo.Base
}

// NewRepository constructs a feedback repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindCustomerByEmail returns nil when no customer has the address.
func (r *Repository) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.DB(ctx).Where("email = ?", email).Take(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer inserts the customer unless the email is taken and returns
// whichever row owns the email afterwards. An existing row is not updated.
func (r *Repository) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if customer == nil || customer.Email == "" {
		return nil, gorm.ErrInvalidValue
	}
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now()
	}

	if err := r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(customer).Error; err != nil {
		return nil, err
	}

	stored, err := r.FindCustomerByEmail(ctx, customer.Email)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return stored, nil
}

// CreateFeedback inserts one feedback row, assigning its id and timestamp.
func (r *Repository) CreateFeedback(ctx context.Context, entry *models.Feedback) error {
	if entry == nil || entry.Email == "" {
		return gorm.ErrInvalidValue
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now()
	}
	if entry.CartItems == nil {
		entry.CartItems = dbtypes.CartLines{}
	}
	return r.DB(ctx).Create(entry).Error
}

// ListFeedback returns feedback newest first.
func (r *Repository) ListFeedback(ctx context.Context, params pagination.Params) (pagination.Page[models.Feedback], error) {
	return repo.ListNewestFirst[models.Feedback](ctx, r.Base, params)
}

// ListCustomers returns customers newest first.
func (r *Repository) ListCustomers(ctx context.Context, params pagination.Params) (pagination.Page[models.Customer], error) {
	return repo.ListNewestFirst[models.Customer](ctx, r.Base, params)
}

// now is truncated to the precision Postgres keeps so cursors round-trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
