package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/billing"
	"github.com/vetdesk/backend/internal/domain/party"
	"github.com/vetdesk/backend/internal/domain/shared"
)

// PaymentService records fixed-total acts: payments, refunds, adjustments,
// initial balances and bad debt write-offs.
type PaymentService struct {
	acts      billing.FinancialActRepository
	customers party.CustomerRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// PaymentServiceOption configures a PaymentService
type PaymentServiceOption func(*PaymentService)

// WithPaymentLogger sets the service logger
func WithPaymentLogger(logger *zap.Logger) PaymentServiceOption {
	return func(s *PaymentService) {
		s.logger = logger
	}
}

// NewPaymentService creates a PaymentService
func NewPaymentService(
	acts billing.FinancialActRepository,
	customers party.CustomerRepository,
	publisher shared.EventPublisher,
	opts ...PaymentServiceOption,
) *PaymentService {
	s := &PaymentService{
		acts:      acts,
		customers: customers,
		publisher: publisher,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePayment records a fixed-total act, posting it immediately when
// requested. Posting at creation is the counter flow: the money has changed
// hands, so the act goes straight onto the account.
func (s *PaymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*FinancialActResponse, error) {
	kind := billing.ActKind(req.Kind)
	if kind.IsCharge() {
		return nil, shared.NewDomainError("INVALID_ACT", "Charges carry items; use the charge service")
	}
	if _, err := s.customers.FindByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	act, err := billing.NewFixedAct(req.CustomerID, kind, startTimeOrNow(req.StartTime), req.Amount)
	if err != nil {
		return nil, err
	}
	act.Notes = req.Notes
	if req.Post {
		if err := act.Post(); err != nil {
			return nil, err
		}
	}

	if err := s.acts.Save(ctx, act); err != nil {
		return nil, err
	}
	s.publishSaved(ctx, act, nil)
	s.logger.Info("recorded payment act",
		zap.String("act", act.ID.String()),
		zap.String("kind", kind.String()),
		zap.String("amount", req.Amount.String()),
		zap.Bool("posted", act.IsPosted()))
	resp := ToFinancialActResponse(act)
	return &resp, nil
}

// Post puts a previously recorded act on the account
func (s *PaymentService) Post(ctx context.Context, actID uuid.UUID) (*FinancialActResponse, error) {
	act, err := s.acts.FindByID(ctx, actID)
	if err != nil {
		return nil, err
	}
	if err := act.Post(); err != nil {
		return nil, err
	}
	if err := s.acts.Save(ctx, act); err != nil {
		return nil, err
	}
	s.publishSaved(ctx, act, nil)
	resp := ToFinancialActResponse(act)
	return &resp, nil
}

func (s *PaymentService) publishSaved(ctx context.Context, act *billing.FinancialAct, prior []billing.ChargeItemState) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, billing.NewFinancialActSavedEvent(act, prior)); err != nil {
		s.logger.Error("failed to publish act saved event",
			zap.String("act", act.ID.String()), zap.Error(err))
	}
}

func startTimeOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
