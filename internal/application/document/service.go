// Package document generates customer-facing invoice documents from
// posted financial acts and keeps them in object storage.
package document

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/billing"
	"github.com/vetdesk/backend/internal/domain/party"
	"github.com/vetdesk/backend/internal/domain/patient"
	"github.com/vetdesk/backend/internal/domain/shared"
	"github.com/vetdesk/backend/internal/infrastructure/documents"
	"github.com/vetdesk/backend/internal/infrastructure/storage"
)

const pdfContentType = "application/pdf"

// Service renders posted charge acts to PDF invoices. It is a thin
// pipeline: load act and names, bind the invoice template, render with
// the configured PDFRenderer and store the result.
type Service struct {
	acts      billing.FinancialActRepository
	customers party.CustomerRepository
	patients  patient.PatientRepository
	engine    *documents.InvoiceTemplateEngine
	renderer  documents.PDFRenderer
	store     storage.ObjectStorage

	practice  documents.PracticeDetails
	keyPrefix string
	logger    *zap.Logger
}

// ServiceOption configures a document Service
type ServiceOption func(*Service)

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPractice sets the letterhead details printed on documents
func WithPractice(practice documents.PracticeDetails) ServiceOption {
	return func(s *Service) {
		s.practice = practice
	}
}

// WithKeyPrefix sets the storage key prefix for generated documents
func WithKeyPrefix(prefix string) ServiceOption {
	return func(s *Service) {
		s.keyPrefix = strings.Trim(prefix, "/")
	}
}

// NewService creates a document Service
func NewService(
	acts billing.FinancialActRepository,
	customers party.CustomerRepository,
	patients patient.PatientRepository,
	engine *documents.InvoiceTemplateEngine,
	renderer documents.PDFRenderer,
	store storage.ObjectStorage,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		acts:      acts,
		customers: customers,
		patients:  patients,
		engine:    engine,
		renderer:  renderer,
		store:     store,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateInvoice renders the invoice PDF for a posted charge act,
// stores it and returns a presigned download link. Regenerating an
// existing invoice overwrites the stored object.
func (s *Service) GenerateInvoice(ctx context.Context, actID uuid.UUID) (*InvoiceDocumentResponse, error) {
	act, err := s.acts.FindByID(ctx, actID)
	if err != nil {
		return nil, err
	}
	if !act.Kind.IsCharge() {
		return nil, shared.NewDomainError("NOT_PRINTABLE",
			fmt.Sprintf("Cannot generate an invoice for a %s act", act.Kind))
	}
	if act.Status != billing.ActStatusPosted {
		return nil, shared.NewDomainError("NOT_POSTED", "Invoice documents require a posted act")
	}

	customer, err := s.customers.FindByID(ctx, act.CustomerID)
	if err != nil {
		return nil, err
	}

	data, err := s.buildInvoiceData(ctx, act, customer)
	if err != nil {
		return nil, err
	}

	html, err := s.engine.RenderInvoice(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice template: %w", err)
	}

	result, err := s.renderer.Render(ctx, &documents.RenderRequest{
		HTML:        html,
		PaperSize:   documents.PaperSizeA4,
		Orientation: documents.OrientationPortrait,
		Margins:     documents.DefaultMargins(),
		Title:       "Invoice " + data.InvoiceNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}

	key := s.storageKey(actID)
	if err := s.store.Put(ctx, key, result.PDFData, pdfContentType); err != nil {
		return nil, fmt.Errorf("failed to store invoice document: %w", err)
	}

	url, expires, err := s.store.PresignDownload(ctx, key, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to presign invoice download: %w", err)
	}

	s.logger.Info("invoice document generated",
		zap.String("act_id", actID.String()),
		zap.String("key", key),
		zap.Int("pages", result.PageCount))

	return &InvoiceDocumentResponse{
		ActID:       actID,
		StorageKey:  key,
		DownloadURL: url,
		URLExpires:  expires,
		PageCount:   result.PageCount,
		GeneratedAt: time.Now(),
	}, nil
}

// DownloadInvoice presigns a fresh link for an already-generated invoice.
// Returns shared.ErrNotFound when no document has been generated yet.
func (s *Service) DownloadInvoice(ctx context.Context, actID uuid.UUID) (*DownloadResponse, error) {
	key := s.storageKey(actID)

	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check invoice document: %w", err)
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	url, expires, err := s.store.PresignDownload(ctx, key, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to presign invoice download: %w", err)
	}

	return &DownloadResponse{
		ActID:       actID,
		StorageKey:  key,
		DownloadURL: url,
		URLExpires:  expires,
	}, nil
}

// DeleteInvoice removes a generated invoice document from storage.
func (s *Service) DeleteInvoice(ctx context.Context, actID uuid.UUID) error {
	return s.store.Delete(ctx, s.storageKey(actID))
}

func (s *Service) storageKey(actID uuid.UUID) string {
	key := "invoices/" + actID.String() + ".pdf"
	if s.keyPrefix != "" {
		key = s.keyPrefix + "/" + key
	}
	return key
}

func (s *Service) buildInvoiceData(ctx context.Context, act *billing.FinancialAct, customer *party.Customer) (*documents.InvoiceData, error) {
	patientNames := make(map[uuid.UUID]string)

	lines := make([]documents.InvoiceLine, 0, len(act.Items))
	for _, item := range act.Items {
		name, ok := patientNames[item.PatientID]
		if !ok {
			p, err := s.patients.FindByID(ctx, item.PatientID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve patient %s: %w", item.PatientID, err)
			}
			name = p.Name
			patientNames[item.PatientID] = name
		}

		lines = append(lines, documents.InvoiceLine{
			PatientName: name,
			Description: "Item " + shortID(item.ProductID),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount(),
		})
	}

	address := customer.Address
	if customer.Suburb != "" {
		address = strings.TrimSpace(address + ", " + customer.Suburb + " " + customer.Postcode)
		address = strings.TrimPrefix(address, ", ")
	}

	return &documents.InvoiceData{
		InvoiceNumber:   "INV-" + shortID(act.ID),
		IssuedAt:        act.StartTime,
		Practice:        s.practice,
		CustomerName:    customer.Name(),
		CustomerAddress: address,
		Lines:           lines,
		Total:           act.Total,
		AmountPaid:      act.AllocatedAmount,
		BalanceDue:      act.Total.Sub(act.AllocatedAmount),
		Notes:           act.Notes,
	}, nil
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
