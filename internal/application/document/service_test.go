package document

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/backend/internal/domain/billing"
	"github.com/vetdesk/backend/internal/domain/party"
	"github.com/vetdesk/backend/internal/domain/patient"
	"github.com/vetdesk/backend/internal/domain/shared"
	"github.com/vetdesk/backend/internal/infrastructure/documents"
	"github.com/vetdesk/backend/internal/infrastructure/storage"
)

type actRepo struct {
	acts map[uuid.UUID]*billing.FinancialAct
}

func (r *actRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.FinancialAct, error) {
	act, ok := r.acts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return act, nil
}

func (r *actRepo) FindByCustomer(context.Context, uuid.UUID, shared.Filter) ([]billing.FinancialAct, error) {
	return nil, nil
}

func (r *actRepo) FindPostedByCustomer(context.Context, uuid.UUID) ([]*billing.FinancialAct, error) {
	return nil, nil
}

func (r *actRepo) FindAllByCustomer(context.Context, uuid.UUID) ([]*billing.FinancialAct, error) {
	return nil, nil
}

func (r *actRepo) FindUnallocated(context.Context, uuid.UUID) ([]*billing.FinancialAct, error) {
	return nil, nil
}

func (r *actRepo) FindByIDs(context.Context, []uuid.UUID) ([]*billing.FinancialAct, error) {
	return nil, nil
}

func (r *actRepo) Save(_ context.Context, act *billing.FinancialAct) error {
	r.acts[act.ID] = act
	return nil
}

func (r *actRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.acts, id)
	return nil
}

type customerRepo struct {
	customers map[uuid.UUID]*party.Customer
}

func (r *customerRepo) FindByID(_ context.Context, id uuid.UUID) (*party.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *customerRepo) FindAll(context.Context, shared.Filter) ([]party.Customer, error) {
	return nil, nil
}

func (r *customerRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }

func (r *customerRepo) Save(_ context.Context, c *party.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *customerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

type patientRepo struct {
	patients map[uuid.UUID]*patient.Patient
}

func (r *patientRepo) FindByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *patientRepo) FindByCustomer(context.Context, uuid.UUID, shared.Filter) ([]patient.Patient, error) {
	return nil, nil
}

func (r *patientRepo) FindAll(context.Context, shared.Filter) ([]patient.Patient, error) {
	return nil, nil
}

func (r *patientRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }

func (r *patientRepo) Save(_ context.Context, p *patient.Patient) error {
	r.patients[p.ID] = p
	return nil
}

func (r *patientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.patients, id)
	return nil
}

// fakeRenderer records the HTML it was asked to render and returns a
// canned PDF payload.
type fakeRenderer struct {
	lastHTML string
	fail     bool
}

func (f *fakeRenderer) Render(_ context.Context, req *documents.RenderRequest) (*documents.RenderResult, error) {
	if f.fail {
		return nil, documents.NewRenderError(documents.ErrCodeRenderFailed, "boom", nil)
	}
	f.lastHTML = req.HTML
	return &documents.RenderResult{
		PDFData:   []byte("%PDF-1.4 fake"),
		PageCount: 1,
	}, nil
}

func (f *fakeRenderer) Close() error { return nil }

type fixture struct {
	service  *Service
	acts     *actRepo
	renderer *fakeRenderer
	store    *storage.StubObjectStorage

	customerID uuid.UUID
	patientID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	acts := &actRepo{acts: map[uuid.UUID]*billing.FinancialAct{}}
	customers := &customerRepo{customers: map[uuid.UUID]*party.Customer{}}
	patients := &patientRepo{patients: map[uuid.UUID]*patient.Patient{}}

	customer, err := party.NewCustomer("Sarah", "Connor")
	require.NoError(t, err)
	customer.SetAddress("1 Main Rd", "Prahran", "3181")
	require.NoError(t, customers.Save(context.Background(), customer))

	pat, err := patient.NewPatient(customer.ID, "Rex", patient.SpeciesCanine)
	require.NoError(t, err)
	require.NoError(t, patients.Save(context.Background(), pat))

	engine, err := documents.NewInvoiceTemplateEngine()
	require.NoError(t, err)

	renderer := &fakeRenderer{}
	store := storage.NewStubObjectStorage()

	service := NewService(acts, customers, patients, engine, renderer, store,
		WithPractice(documents.PracticeDetails{Name: "Hillside Veterinary Clinic"}),
		WithKeyPrefix("documents"))

	return &fixture{
		service:    service,
		acts:       acts,
		renderer:   renderer,
		store:      store,
		customerID: customer.ID,
		patientID:  pat.ID,
	}
}

func (f *fixture) postedInvoice(t *testing.T) *billing.FinancialAct {
	t.Helper()

	act, err := billing.NewFinancialAct(f.customerID, billing.ActKindInvoice, time.Now())
	require.NoError(t, err)

	item, err := billing.NewChargeItem(uuid.New(), f.patientID,
		decimal.NewFromInt(2), decimal.NewFromFloat(42.50))
	require.NoError(t, err)
	require.NoError(t, act.AddItem(item))

	require.NoError(t, act.Complete())
	require.NoError(t, act.Post())
	require.NoError(t, f.acts.Save(context.Background(), act))
	return act
}

func TestGenerateInvoice(t *testing.T) {
	f := newFixture(t)
	act := f.postedInvoice(t)

	resp, err := f.service.GenerateInvoice(context.Background(), act.ID)
	require.NoError(t, err)

	assert.Equal(t, act.ID, resp.ActID)
	assert.Equal(t, "documents/invoices/"+act.ID.String()+".pdf", resp.StorageKey)
	assert.NotEmpty(t, resp.DownloadURL)
	assert.Equal(t, 1, resp.PageCount)

	data, contentType, ok := f.store.Object(resp.StorageKey)
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)
	assert.Equal(t, "application/pdf", contentType)

	assert.Contains(t, f.renderer.lastHTML, "Hillside Veterinary Clinic")
	assert.Contains(t, f.renderer.lastHTML, "Sarah Connor")
	assert.Contains(t, f.renderer.lastHTML, "Rex")
	assert.Contains(t, f.renderer.lastHTML, "$85.00")
}

func TestGenerateInvoice_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.GenerateInvoice(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGenerateInvoice_RejectsUnposted(t *testing.T) {
	f := newFixture(t)

	act, err := billing.NewFinancialAct(f.customerID, billing.ActKindInvoice, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.acts.Save(context.Background(), act))

	_, err = f.service.GenerateInvoice(context.Background(), act.ID)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_POSTED", domainErr.Code)
}

func TestGenerateInvoice_RejectsPaymentActs(t *testing.T) {
	f := newFixture(t)

	act, err := billing.NewFixedAct(f.customerID, billing.ActKindPayment, time.Now(),
		decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, act.Post())
	require.NoError(t, f.acts.Save(context.Background(), act))

	_, err = f.service.GenerateInvoice(context.Background(), act.ID)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_PRINTABLE", domainErr.Code)
}

func TestGenerateInvoice_RendererFailure(t *testing.T) {
	f := newFixture(t)
	act := f.postedInvoice(t)
	f.renderer.fail = true

	_, err := f.service.GenerateInvoice(context.Background(), act.ID)
	require.Error(t, err)
	assert.Equal(t, 0, f.store.Len())
}

func TestDownloadInvoice(t *testing.T) {
	f := newFixture(t)
	act := f.postedInvoice(t)

	_, err := f.service.DownloadInvoice(context.Background(), act.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "no document generated yet")

	gen, err := f.service.GenerateInvoice(context.Background(), act.ID)
	require.NoError(t, err)

	resp, err := f.service.DownloadInvoice(context.Background(), act.ID)
	require.NoError(t, err)
	assert.Equal(t, gen.StorageKey, resp.StorageKey)
	assert.NotEmpty(t, resp.DownloadURL)
}

func TestDeleteInvoice(t *testing.T) {
	f := newFixture(t)
	act := f.postedInvoice(t)

	_, err := f.service.GenerateInvoice(context.Background(), act.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.Len())

	require.NoError(t, f.service.DeleteInvoice(context.Background(), act.ID))
	assert.Equal(t, 0, f.store.Len())
}
