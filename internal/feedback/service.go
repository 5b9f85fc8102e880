package feedback

import (
	"context"
	"time"

	"github.com/angelmondragon/londonshop-backend/pkg/config"
	"github.com/angelmondragon/londonshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/londonshop-backend/pkg/errors"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
	"github.com/angelmondragon/londonshop-backend/pkg/metrics"
	"github.com/angelmondragon/londonshop-backend/pkg/pagination"
	"github.com/sethvargo/go-retry"
)

const (
	opSaveCustomer  = "save_customer"
	opSaveFeedback  = "save_feedback"
	opListFeedback  = "list_feedback"
	opListCustomers = "list_customers"
)

// Service records checkout submissions and serves the admin listings.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*EntryDTO, error)
	ListFeedback(ctx context.Context, params pagination.Params) (FeedbackPage, error)
	ListCustomers(ctx context.Context, params pagination.Params) (CustomerPage, error)
}

// ServiceParams groups dependencies for the feedback service.
type ServiceParams struct {
	Repo    Store
	Config  config.FeedbackConfig
	Logger  *logger.Logger
	Metrics *metrics.Storefront
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	repo     Store
	retries  uint64
	backoff  time.Duration
	fallback bool
	logg     *logger.Logger
	metrics  *metrics.Storefront
	now      func() time.Time
}

// NewService builds a feedback service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feedback repo is required")
	}
	backoff := params.Config.InitialBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	s := &service{
		repo:     params.Repo,
		retries:  params.Config.MaxRetries,
		backoff:  backoff,
		fallback: params.Config.Fallback,
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      params.Now,
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Submit stores the customer (first submission per email wins) and the
// feedback row. A customer failure is logged and does not block the feedback.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*EntryDTO, error) {
	in := input.normalized()
	if in.Email == "" || in.FirstName == "" || in.LastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email, first name and last name are required")
	}

	if err := s.saveCustomer(ctx, in); err != nil {
		if ctx.Err() != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "feedback submission interrupted")
		}
		s.logg.Error(ctx, "customer save failed", err)
	}

	row := &models.Feedback{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Note:      in.Note,
		CartItems: in.CartItems,
	}
	err := s.withRetry(ctx, opSaveFeedback, func(ctx context.Context) error {
		return s.repo.CreateFeedback(ctx, row)
	})
	if err == nil {
		entry := entryFromModel(*row)
		return &entry, nil
	}
	if ctx.Err() != nil || !s.fallback {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "feedback could not be saved")
	}

	s.logg.Error(ctx, "feedback save failed after retries; returning fallback entry", err)
	s.metrics.FeedbackFallback(opSaveFeedback)
	entry := fallbackEntry(in, s.now())
	return &entry, nil
}

func (s *service) saveCustomer(ctx context.Context, in SubmitInput) error {
	return s.withRetry(ctx, opSaveCustomer, func(ctx context.Context) error {
		existing, err := s.repo.FindCustomerByEmail(ctx, in.Email)
		if err != nil || existing != nil {
			return err
		}
		_, err = s.repo.CreateCustomer(ctx, &models.Customer{
			Email:     in.Email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
		})
		return err
	})
}

// ListFeedback returns feedback newest first. When the store stays
// unreachable the page is empty and flagged Degraded.
func (s *service) ListFeedback(ctx context.Context, params pagination.Params) (FeedbackPage, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return FeedbackPage{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	var page pagination.Page[models.Feedback]
	err := s.withRetry(ctx, opListFeedback, func(ctx context.Context) error {
		var err error
		page, err = s.repo.ListFeedback(ctx, params)
		return err
	})
	if err != nil {
		if ctx.Err() != nil || !s.fallback {
			return FeedbackPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "feedback unavailable")
		}
		s.logg.Error(ctx, "feedback listing failed after retries", err)
		s.metrics.FeedbackFallback(opListFeedback)
		return FeedbackPage{Items: []EntryDTO{}, Degraded: true}, nil
	}

	items := make([]EntryDTO, 0, len(page.Items))
	for _, row := range page.Items {
		items = append(items, entryFromModel(row))
	}
	return FeedbackPage{Items: items, NextCursor: page.NextCursor}, nil
}

// ListCustomers returns customers newest first, degrading like ListFeedback.
func (s *service) ListCustomers(ctx context.Context, params pagination.Params) (CustomerPage, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return CustomerPage{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	var page pagination.Page[models.Customer]
	err := s.withRetry(ctx, opListCustomers, func(ctx context.Context) error {
		var err error
		page, err = s.repo.ListCustomers(ctx, params)
		return err
	})
	if err != nil {
		if ctx.Err() != nil || !s.fallback {
			return CustomerPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "customers unavailable")
		}
		s.logg.Error(ctx, "customer listing failed after retries", err)
		s.metrics.FeedbackFallback(opListCustomers)
		return CustomerPage{Items: []CustomerDTO{}, Degraded: true}, nil
	}

	items := make([]CustomerDTO, 0, len(page.Items))
	for _, row := range page.Items {
		items = append(items, customerFromModel(row))
	}
	return CustomerPage{Items: items, NextCursor: page.NextCursor}, nil
}

// withRetry runs fn once plus up to s.retries more times, waiting
// backoff, 2*backoff, 4*backoff... between attempts. Validation errors are
// not retried.
func (s *service) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	attempt := 0
	policy := retry.WithMaxRetries(s.retries, retry.NewExponential(s.backoff))
	return retry.Do(ctx, policy, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			s.metrics.FeedbackRetry(op)
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			return err
		}
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"op":      op,
			"attempt": attempt,
			"error":   err.Error(),
		}), "feedback store attempt failed")
		return retry.RetryableError(err)
	})
}
