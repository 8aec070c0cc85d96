package handler

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingapp "github.com/vetdesk/backend/internal/application/billing"
	"github.com/vetdesk/backend/internal/domain/billing"
	"github.com/vetdesk/backend/internal/domain/party"
	"github.com/vetdesk/backend/internal/domain/shared"
)

// ledgerFixture is an in-memory financial act and customer store backing the
// billing handler tests.
type ledgerFixture struct {
	mu        sync.Mutex
	acts      map[uuid.UUID]billing.FinancialAct
	customers map[uuid.UUID]party.Customer
}

func newLedgerFixture() *ledgerFixture {
	return &ledgerFixture{
		acts:      make(map[uuid.UUID]billing.FinancialAct),
		customers: make(map[uuid.UUID]party.Customer),
	}
}

func (f *ledgerFixture) copyAct(act billing.FinancialAct) *billing.FinancialAct {
	copied := act
	copied.Items = append([]billing.ChargeItem(nil), act.Items...)
	return &copied
}

func (f *ledgerFixture) FindByID(_ context.Context, id uuid.UUID) (*billing.FinancialAct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	act, ok := f.acts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return f.copyAct(act), nil
}

func (f *ledgerFixture) FindByCustomer(_ context.Context, customerID uuid.UUID, _ shared.Filter) ([]billing.FinancialAct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []billing.FinancialAct
	for _, act := range f.acts {
		if act.CustomerID == customerID {
			result = append(result, *f.copyAct(act))
		}
	}
	return result, nil
}

func (f *ledgerFixture) FindPostedByCustomer(_ context.Context, customerID uuid.UUID) ([]*billing.FinancialAct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*billing.FinancialAct
	for _, act := range f.acts {
		if act.CustomerID == customerID && act.IsPosted() {
			result = append(result, f.copyAct(act))
		}
	}
	return result, nil
}

func (f *ledgerFixture) FindAllByCustomer(_ context.Context, customerID uuid.UUID) ([]*billing.FinancialAct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*billing.FinancialAct
	for _, act := range f.acts {
		if act.CustomerID == customerID {
			result = append(result, f.copyAct(act))
		}
	}
	return result, nil
}

func (f *ledgerFixture) FindUnallocated(_ context.Context, customerID uuid.UUID) ([]*billing.FinancialAct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*billing.FinancialAct
	for _, act := range f.acts {
		if act.CustomerID == customerID && act.IsPosted() && act.Unallocated {
			result = append(result, f.copyAct(act))
		}
	}
	return result, nil
}

func (f *ledgerFixture) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*billing.FinancialAct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*billing.FinancialAct
	for _, id := range ids {
		if act, ok := f.acts[id]; ok {
			result = append(result, f.copyAct(act))
		}
	}
	return result, nil
}

func (f *ledgerFixture) Save(_ context.Context, act *billing.FinancialAct) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acts[act.ID] = *f.copyAct(*act)
	return nil
}

func (f *ledgerFixture) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.acts, id)
	return nil
}

var _ billing.FinancialActRepository = (*ledgerFixture)(nil)

// ledgerCustomers adapts the fixture into a customer repository
type ledgerCustomers struct{ f *ledgerFixture }

func (r ledgerCustomers) FindByID(_ context.Context, id uuid.UUID) (*party.Customer, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	customer, ok := r.f.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := customer
	return &copied, nil
}

func (r ledgerCustomers) FindAll(_ context.Context, _ shared.Filter) ([]party.Customer, error) {
	return nil, nil
}

func (r ledgerCustomers) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return 0, nil
}

func (r ledgerCustomers) Save(_ context.Context, customer *party.Customer) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.customers[customer.ID] = *customer
	return nil
}

func (r ledgerCustomers) Delete(_ context.Context, id uuid.UUID) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.customers, id)
	return nil
}

// nopPublisher discards domain events; the balance engine is not under test
// here.
type nopPublisher struct{}

func (nopPublisher) Publish(_ context.Context, _ ...shared.DomainEvent) error { return nil }

type chargeHandlerFixture struct {
	router     *gin.Engine
	customerID uuid.UUID
	ledger     *ledgerFixture
}

func newChargeHandlerFixture(t *testing.T) *chargeHandlerFixture {
	t.Helper()

	ledger := newLedgerFixture()
	chargeSvc := billingapp.NewChargeService(ledger, ledgerCustomers{ledger}, nopPublisher{})
	h := NewChargeHandler(chargeSvc)

	customer, err := party.NewCustomer("Sam", "Breeder")
	require.NoError(t, err)
	require.NoError(t, ledgerCustomers{ledger}.Save(context.Background(), customer))

	router := gin.New()
	router.POST("/charges", h.Create)
	router.GET("/charges", h.ListByCustomer)
	router.GET("/charges/:id", h.GetByID)
	router.DELETE("/charges/:id", h.Delete)
	router.POST("/charges/:id/items", h.AddItem)
	router.PUT("/charges/:id/items/:item_id", h.UpdateItem)
	router.DELETE("/charges/:id/items/:item_id", h.RemoveItem)
	router.POST("/charges/:id/complete", h.Complete)
	router.POST("/charges/:id/post", h.Post)

	return &chargeHandlerFixture{router: router, customerID: customer.ID, ledger: ledger}
}

func chargeItem(price int64) billingapp.ChargeItemRequest {
	return billingapp.ChargeItemRequest{
		ProductID: uuid.New(),
		PatientID: uuid.New(),
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(price),
	}
}

func (f *chargeHandlerFixture) open(t *testing.T, items ...billingapp.ChargeItemRequest) billingapp.FinancialActResponse {
	t.Helper()
	rec := performRequest(t, f.router, http.MethodPost, "/charges", billingapp.CreateChargeRequest{
		CustomerID: f.customerID,
		Kind:       "INVOICE",
		Items:      items,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[billingapp.FinancialActResponse](t, rec)
}

func TestChargeHandler_Create(t *testing.T) {
	f := newChargeHandlerFixture(t)

	created := f.open(t, chargeItem(40), chargeItem(25))
	assert.Equal(t, "IN_PROGRESS", created.Status)
	assert.True(t, created.Total.Equal(decimal.NewFromInt(65)), created.Total.String())
	assert.Len(t, created.Items, 2)
}

func TestChargeHandler_CreateValidation(t *testing.T) {
	f := newChargeHandlerFixture(t)

	// Payment kinds are not accepted on the charge route.
	rec := performRequest(t, f.router, http.MethodPost, "/charges", map[string]any{
		"customer_id": f.customerID,
		"kind":        "PAYMENT",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(t, f.router, http.MethodPost, "/charges", billingapp.CreateChargeRequest{
		CustomerID: uuid.New(),
		Kind:       "INVOICE",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChargeHandler_ListByCustomer(t *testing.T) {
	f := newChargeHandlerFixture(t)
	f.open(t, chargeItem(40))
	f.open(t, chargeItem(25))

	rec := performRequest(t, f.router, http.MethodGet, "/charges?customer_id="+f.customerID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	acts := decodeData[[]billingapp.FinancialActResponse](t, rec)
	assert.Len(t, acts, 2)

	rec = performRequest(t, f.router, http.MethodGet, "/charges", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChargeHandler_ItemLifecycle(t *testing.T) {
	f := newChargeHandlerFixture(t)
	created := f.open(t, chargeItem(40))

	rec := performRequest(t, f.router, http.MethodPost, "/charges/"+created.ID.String()+"/items", chargeItem(10))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	act := decodeData[billingapp.FinancialActResponse](t, rec)
	require.Len(t, act.Items, 2)
	assert.True(t, act.Total.Equal(decimal.NewFromInt(50)), act.Total.String())

	quantity := decimal.NewFromInt(3)
	rec = performRequest(t, f.router, http.MethodPut,
		"/charges/"+created.ID.String()+"/items/"+act.Items[1].ID.String(),
		billingapp.UpdateChargeItemRequest{Quantity: &quantity})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	act = decodeData[billingapp.FinancialActResponse](t, rec)
	assert.True(t, act.Total.Equal(decimal.NewFromInt(70)), act.Total.String())

	rec = performRequest(t, f.router, http.MethodDelete,
		"/charges/"+created.ID.String()+"/items/"+act.Items[0].ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	act = decodeData[billingapp.FinancialActResponse](t, rec)
	assert.True(t, act.Total.Equal(decimal.NewFromInt(30)), act.Total.String())
}

func TestChargeHandler_CompleteAndPost(t *testing.T) {
	f := newChargeHandlerFixture(t)
	created := f.open(t, chargeItem(15))

	rec := performRequest(t, f.router, http.MethodPost, "/charges/"+created.ID.String()+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	act := decodeData[billingapp.FinancialActResponse](t, rec)
	assert.Equal(t, "COMPLETED", act.Status)

	rec = performRequest(t, f.router, http.MethodPost, "/charges/"+created.ID.String()+"/post", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	act = decodeData[billingapp.FinancialActResponse](t, rec)
	assert.Equal(t, "POSTED", act.Status)

	// Posting is one-way; posted acts are immutable.
	rec = performRequest(t, f.router, http.MethodPost, "/charges/"+created.ID.String()+"/post", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = performRequest(t, f.router, http.MethodPost, "/charges/"+created.ID.String()+"/items", chargeItem(5))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestChargeHandler_Delete(t *testing.T) {
	f := newChargeHandlerFixture(t)
	created := f.open(t, chargeItem(40))

	rec := performRequest(t, f.router, http.MethodDelete, "/charges/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = performRequest(t, f.router, http.MethodGet, "/charges/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
