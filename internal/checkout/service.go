package checkout

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/angelmondragon/londonshop-backend/internal/cart"
	"github.com/angelmondragon/londonshop-backend/internal/feedback"
	dbtypes "github.com/angelmondragon/londonshop-backend/pkg/db/types"
	pkgerrors "github.com/angelmondragon/londonshop-backend/pkg/errors"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
	"github.com/angelmondragon/londonshop-backend/pkg/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Submitter records a checkout submission.
type Submitter interface {
	Submit(ctx context.Context, input feedback.SubmitInput) (*feedback.EntryDTO, error)
}

// Contact is the shopper's details from the checkout form.
type Contact struct {
	Email     string `json:"email" validate:"required,email,max=320"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Note      string `json:"note" validate:"max=2000"`
}

func (c Contact) trimmed() Contact {
	return Contact{
		Email:     strings.TrimSpace(c.Email),
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Note:      strings.TrimSpace(c.Note),
	}
}

// Result reports a successful submission. Fallback is set when the entry
// could not be stored and a placeholder was accepted instead.
type Result struct {
	Submitted  bool            `json:"submitted"`
	FeedbackID string          `json:"feedback_id"`
	Fallback   bool            `json:"fallback"`
	ItemCount  int             `json:"item_count"`
	Total      decimal.Decimal `json:"total"`
}

// Service runs the checkout submission against a session's cart.
type Service interface {
	Submit(ctx context.Context, c *cart.Manager, contact Contact) (*Result, error)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Feedback Submitter
	Logger   *logger.Logger
	Metrics  *metrics.Storefront
}

type service struct {
	feedback Submitter
	logg     *logger.Logger
	metrics  *metrics.Storefront
	validate *validator.Validate
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Feedback == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feedback submitter is required")
	}
	s := &service{
		feedback: params.Feedback,
		logg:     params.Logger,
		metrics:  params.Metrics,
		validate: newValidator(),
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	return s, nil
}

// Submit sends the contact details and the current cart lines to the
// feedback collaborator. Once the submission succeeds the submitted lines are
// settled out of the cart, so lines added while it was in flight survive; on
// failure the cart is left exactly as it was.
func (s *service) Submit(ctx context.Context, c *cart.Manager, contact Contact) (*Result, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is required")
	}
	contact = contact.trimmed()
	if err := s.validate.Struct(contact); err != nil {
		s.metrics.Checkout(metrics.OutcomeInvalid, 0)
		return nil, validationError(err)
	}

	state := c.State()
	input := feedback.SubmitInput{
		Email:     contact.Email,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Note:      contact.Note,
		CartItems: linesFrom(state.Items),
	}

	// The shopper may close the panel or navigate away mid-request; the
	// submission still runs to completion.
	submitCtx := context.WithoutCancel(ctx)
	start := time.Now()
	entry, err := s.feedback.Submit(submitCtx, input)
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.Checkout(metrics.OutcomeFailed, elapsed)
		s.logg.Error(ctx, "checkout submission failed; cart kept", err)
		if pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout could not be submitted, please try again")
	}

	c.Settle(submitCtx, state.Items)

	outcome := metrics.OutcomeSubmitted
	if entry.Fallback {
		outcome = metrics.OutcomeFallback
	}
	s.metrics.Checkout(outcome, elapsed)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"feedback_id": entry.ID,
		"fallback":    entry.Fallback,
		"item_count":  state.Count,
	}), "checkout submitted")

	return &Result{
		Submitted:  true,
		FeedbackID: entry.ID,
		Fallback:   entry.Fallback,
		ItemCount:  state.Count,
		Total:      state.Total,
	}, nil
}

func linesFrom(items []cart.LineItem) dbtypes.CartLines {
	lines := make(dbtypes.CartLines, 0, len(items))
	for _, it := range items {
		lines = append(lines, dbtypes.CartLine{
			ID:       it.ProductID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Color:    it.Color,
			Size:     it.Size,
		})
	}
	return lines
}

func validationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contact details")
	}
	details := map[string]string{}
	for _, fe := range errs {
		details[fe.Field()] = fe.Tag()
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid contact details").WithDetails(details)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]; name != "" {
			return name
		}
		return f.Name
	})
	return v
}
