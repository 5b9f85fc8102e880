package feedback

import (
	"strings"
	"time"

	"github.com/angelmondragon/londonshop-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/londonshop-backend/pkg/db/types"
)

// FallbackFeedbackID identifies the placeholder entry returned when the
// feedback row could not be stored.
const FallbackFeedbackID = "anonymous-feedback"

// SubmitInput is one checkout submission.
type SubmitInput struct {
	Email     string
	FirstName string
	LastName  string
	Note      string
	CartItems dbtypes.CartLines
}

func (in SubmitInput) normalized() SubmitInput {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Note = strings.TrimSpace(in.Note)
	if in.CartItems == nil {
		in.CartItems = dbtypes.CartLines{}
	}
	return in
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EntryDTO is a stored (or fallback) feedback row.
type EntryDTO struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Note      string            `json:"note"`
	CartItems dbtypes.CartLines `json:"cart_items"`
	CreatedAt time.Time         `json:"created_at"`
	Fallback  bool              `json:"fallback,omitempty"`
}

// CustomerDTO is a stored customer row.
type CustomerDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackPage is a newest-first page of feedback. Degraded is set when the
// store could not be read and the page was left empty.
type FeedbackPage struct {
	Items      []EntryDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
	Degraded   bool       `json:"degraded,omitempty"`
}

// CustomerPage is a newest-first page of customers.
type CustomerPage struct {
	Items      []CustomerDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
	Degraded   bool          `json:"degraded,omitempty"`
}

func entryFromModel(m models.Feedback) EntryDTO {
	items := m.CartItems
	if items == nil {
		items = dbtypes.CartLines{}
	}
	return EntryDTO{
		ID:        m.ID.String(),
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Note:      m.Note,
		CartItems: items,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func customerFromModel(m models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        m.ID.String(),
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func fallbackEntry(in SubmitInput, now time.Time) EntryDTO {
	return EntryDTO{
		ID:        FallbackFeedbackID,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Note:      in.Note,
		CartItems: in.CartItems,
		CreatedAt: now.UTC(),
		Fallback:  true,
	}
}

