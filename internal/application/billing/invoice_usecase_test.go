package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
)

const testUser = "user-1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixedClock() time.Time {
	return time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
}

type recordingMetrics struct {
	created  []string
	statuses []string
	rendered []string
}

func (m *recordingMetrics) InvoiceCreated(supply string, _ decimal.Decimal) {
	m.created = append(m.created, supply)
}
func (m *recordingMetrics) InvoiceStatusChanged(status string) {
	m.statuses = append(m.statuses, status)
}
func (m *recordingMetrics) DocumentRendered(format string) { m.rendered = append(m.rendered, format) }

type invoiceFixture struct {
	store   *memStore
	uc      *InvoiceUseCase
	cache   *countingInvalidator
	metrics *recordingMetrics
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	store := newMemStore()
	store.profiles[testUser] = &entity.BusinessProfile{
		ID: "p1", UserID: testUser, BusinessName: "Sharma Traders",
		State: "Karnataka", InvoicePrefix: "INV",
	}
	store.customers["c-local"] = &entity.Customer{ID: "c-local", UserID: testUser, Name: "Local Buyer", State: "karnataka "}
	store.customers["c-remote"] = &entity.Customer{ID: "c-remote", UserID: testUser, Name: "Remote Buyer", State: "Kerala"}
	store.customers["c-gstin"] = &entity.Customer{ID: "c-gstin", UserID: testUser, Name: "GSTIN Only", GSTIN: "27AAPFU0939F1ZV"}
	store.customers["c-other"] = &entity.Customer{ID: "c-other", UserID: "user-2", Name: "Not Yours", State: "Kerala"}

	cache := &countingInvalidator{}
	metrics := &recordingMetrics{}
	uc := NewInvoiceUseCase(InvoiceDeps{
		TxRunner:     store,
		InvoiceRepo:  memInvoices{store},
		CustomerRepo: memCustomers{store},
		ProfileRepo:  memProfiles{store},
		Summary:      cache,
		Metrics:      metrics,
		Logger:       zerolog.Nop(),
		Clock:        fixedClock,
	})
	return &invoiceFixture{store: store, uc: uc, cache: cache, metrics: metrics}
}

func request(customerID string) dto.InvoiceRequest {
	return dto.InvoiceRequest{
		CustomerID: customerID,
		Items: []dto.InvoiceItemRequest{
			{Description: "Steel rod", HSNCode: "7214", Quantity: d("10"), Rate: d("100"), GSTRate: d("18")},
		},
	}
}

func TestCreate_IntraStateNumberAndTotals(t *testing.T) {
	f := newInvoiceFixture(t)

	resp, err := f.uc.Create(context.Background(), testUser, request("c-local"))
	require.NoError(t, err)

	assert.Equal(t, "INV-2503-0001", resp.InvoiceNumber)
	assert.Equal(t, entity.InvoiceStatusDraft, resp.Status)
	assert.Equal(t, "intra", resp.SupplyType)
	assert.Equal(t, "2025-03-14", resp.InvoiceDate)
	assert.True(t, resp.TotalCGST.Equal(d("90")))
	assert.True(t, resp.TotalSGST.Equal(d("90")))
	assert.True(t, resp.TotalIGST.IsZero())
	assert.True(t, resp.GrandTotal.Equal(d("1180")))
	assert.Equal(t, "One Thousand One Hundred Eighty Rupees Only", resp.AmountInWords)
	assert.Equal(t, "Local Buyer", resp.Customer.Name)

	assert.Equal(t, 1, f.store.locks, "sequence lock taken")
	assert.Len(t, f.store.items[resp.ID], 1)
	assert.Equal(t, []string{"intra"}, f.metrics.created)
	assert.Equal(t, []string{testUser}, f.cache.users)
}

func TestCreate_InterStateFromStateOrGSTIN(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	remote, err := f.uc.Create(ctx, testUser, request("c-remote"))
	require.NoError(t, err)
	assert.Equal(t, "inter", remote.SupplyType)
	assert.True(t, remote.TotalIGST.Equal(d("180")))
	assert.True(t, remote.TotalCGST.IsZero())

	viaGSTIN, err := f.uc.Create(ctx, testUser, request("c-gstin"))
	require.NoError(t, err)
	assert.Equal(t, "inter", viaGSTIN.SupplyType)
	assert.Equal(t, "Maharashtra", viaGSTIN.PlaceOfSupply)
	assert.Equal(t, "INV-2503-0002", viaGSTIN.InvoiceNumber)
}

func TestCreate_PlaceOfSupplyOverridesCustomerState(t *testing.T) {
	f := newInvoiceFixture(t)
	req := request("c-remote")
	req.PlaceOfSupply = "KARNATAKA"

	resp, err := f.uc.Create(context.Background(), testUser, req)
	require.NoError(t, err)
	assert.Equal(t, "intra", resp.SupplyType)
}

func TestCreate_SkipsNumbersAlreadyTaken(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	first, err := f.uc.Create(ctx, testUser, request("c-local"))
	require.NoError(t, err)
	second, err := f.uc.Create(ctx, testUser, request("c-local"))
	require.NoError(t, err)
	require.Equal(t, "INV-2503-0002", second.InvoiceNumber)

	// Deleting the first leaves count=1, so count+1 collides with 0002.
	require.NoError(t, f.uc.Delete(ctx, testUser, first.ID))
	third, err := f.uc.Create(ctx, testUser, request("c-local"))
	require.NoError(t, err)
	assert.Equal(t, "INV-2503-0003", third.InvoiceNumber)
}

func TestCreate_Validation(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	cases := map[string]func(*dto.InvoiceRequest){
		"items":                func(r *dto.InvoiceRequest) { r.Items = nil },
		"items[0].quantity":    func(r *dto.InvoiceRequest) { r.Items[0].Quantity = d("0") },
		"items[0].rate":        func(r *dto.InvoiceRequest) { r.Items[0].Rate = d("-1") },
		"items[0].gst_rate":    func(r *dto.InvoiceRequest) { r.Items[0].GSTRate = d("7") },
		"items[0].description": func(r *dto.InvoiceRequest) { r.Items[0].Description = "" },
		"customer_id":          func(r *dto.InvoiceRequest) { r.CustomerID = "" },
		"invoice_date":         func(r *dto.InvoiceRequest) { r.InvoiceDate = "14/03/2025" },
		"due_date":             func(r *dto.InvoiceRequest) { r.InvoiceDate = "2025-03-14"; r.DueDate = "2025-03-01" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			req := request("c-local")
			mutate(&req)
			_, err := f.uc.Create(ctx, testUser, req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, field, verr.Field)
		})
	}
	assert.Zero(t, f.store.txCount, "validation happens before the transaction")
}

func TestCreate_ForeignCustomerAndMissingProfile(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, testUser, request("c-other"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	delete(f.store.profiles, testUser)
	_, err = f.uc.Create(ctx, testUser, request("c-local"))
	assert.ErrorIs(t, err, domain.ErrProfileRequired)
}

func TestCreate_TransactionErrorIsReturned(t *testing.T) {
	f := newInvoiceFixture(t)
	f.store.failTx = errors.New("tx failed")

	_, err := f.uc.Create(context.Background(), testUser, request("c-local"))
	assert.ErrorIs(t, err, f.store.failTx)
	assert.Empty(t, f.store.invoices)
	assert.Empty(t, f.metrics.created)
}

func TestCalculate_DoesNotPersist(t *testing.T) {
	f := newInvoiceFixture(t)
	totals, err := f.uc.Calculate(context.Background(), testUser, request("c-remote"))
	require.NoError(t, err)
	assert.Equal(t, "inter", totals.SupplyType)
	assert.True(t, totals.GrandTotal.Equal(d("1180")))
	assert.Empty(t, f.store.invoices)
}

func TestUpdate_DraftOnlyAndKeepsNumber(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	created, err := f.uc.Create(ctx, testUser, request("c-local"))
	require.NoError(t, err)

	req := request("c-remote")
	req.Items = append(req.Items, dto.InvoiceItemRequest{Description: "Cement", Quantity: d("2"), Rate: d("350"), GSTRate: d("28")})
	updated, err := f.uc.Update(ctx, testUser, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, created.InvoiceNumber, updated.InvoiceNumber)
	assert.Equal(t, "inter", updated.SupplyType)
	assert.Len(t, f.store.items[created.ID], 2)
	// 1000 + 180 + 700 + 196
	assert.True(t, updated.GrandTotal.Equal(d("2076")), updated.GrandTotal.String())

	_, err = f.uc.UpdateStatus(ctx, testUser, created.ID, entity.InvoiceStatusSent)
	require.NoError(t, err)
	_, err = f.uc.Update(ctx, testUser, created.ID, req)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	created, err := f.uc.Create(ctx, testUser, request("c-local"))
	require.NoError(t, err)

	_, err = f.uc.UpdateStatus(ctx, testUser, created.ID, "paid")
	assert.ErrorIs(t, err, domain.ErrConflict, "draft cannot jump to paid")

	s, err := f.uc.UpdateStatus(ctx, testUser, created.ID, " SENT ")
	require.NoError(t, err)
	assert.Equal(t, "sent", s.Status)

	_, err = f.uc.UpdateStatus(ctx, testUser, created.ID, "paid")
	require.NoError(t, err)

	_, err = f.uc.UpdateStatus(ctx, testUser, created.ID, "cancelled")
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = f.uc.Delete(ctx, testUser, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "paid invoices are kept")

	_, err = f.uc.UpdateStatus(ctx, testUser, created.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, []string{"sent", "paid"}, f.metrics.statuses)
}

func TestDelete_CancelledInvoice(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	created, err := f.uc.Create(ctx, testUser, request("c-local"))
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(ctx, testUser, created.ID, "sent")
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(ctx, testUser, created.ID, "cancelled")
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, testUser, created.ID))
	_, err = f.uc.Get(ctx, testUser, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatusWrites_ConflictWhenStatusMovesAfterLoad(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	created, err := f.uc.Create(ctx, testUser, request("c-local"))
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(ctx, testUser, created.ID, "sent")
	require.NoError(t, err)

	// another request cancels the invoice between our read and our write
	f.store.afterLoad = func(stored *entity.Invoice) { stored.Status = entity.InvoiceStatusCancelled }
	_, err = f.uc.UpdateStatus(ctx, testUser, created.ID, "paid")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.InvoiceStatusCancelled, f.store.invoices[created.ID].Status)
	assert.Equal(t, []string{"sent"}, f.metrics.statuses)

	f.store.afterLoad = nil
	draft, err := f.uc.Create(ctx, testUser, request("c-local"))
	require.NoError(t, err)
	f.store.afterLoad = func(stored *entity.Invoice) { stored.Status = entity.InvoiceStatusSent }
	_, err = f.uc.Update(ctx, testUser, draft.ID, request("c-remote"))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "intra", f.store.invoices[draft.ID].SupplyType)

	f.store.invoices[draft.ID].Status = entity.InvoiceStatusDraft
	err = f.uc.Delete(ctx, testUser, draft.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, f.store.invoices, draft.ID)
}

func TestList_FiltersByStatus(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	a, err := f.uc.Create(ctx, testUser, request("c-local"))
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, testUser, request("c-remote"))
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(ctx, testUser, a.ID, "sent")
	require.NoError(t, err)

	all, err := f.uc.List(ctx, testUser, "", "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)
	assert.Equal(t, 20, all.Page.Limit)

	sent, err := f.uc.List(ctx, testUser, "sent", "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, sent.Items, 1)
	assert.Equal(t, a.InvoiceNumber, sent.Items[0].InvoiceNumber)

	_, err = f.uc.List(ctx, testUser, "bogus", "", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet_OtherUsersInvoiceIsNotFound(t *testing.T) {
	f := newInvoiceFixture(t)
	created, err := f.uc.Create(context.Background(), testUser, request("c-local"))
	require.NoError(t, err)

	_, err = f.uc.Get(context.Background(), "user-2", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreviewTotals(t *testing.T) {
	totals, err := PreviewTotals(nil, "intra")
	require.NoError(t, err)
	assert.True(t, totals.GrandTotal.IsZero())
	assert.Equal(t, "Zero Rupees Only", totals.AmountInWords)

	// non-standard rates are accepted by the pure calculator
	totals, err = PreviewTotals([]dto.InvoiceItemRequest{{Quantity: d("1"), Rate: d("100"), GSTRate: d("3")}}, "inter")
	require.NoError(t, err)
	assert.True(t, totals.TotalIGST.Equal(d("3")))

	_, err = PreviewTotals([]dto.InvoiceItemRequest{{Quantity: d("-1"), Rate: d("100")}}, "inter")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
