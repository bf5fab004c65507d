package billing

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

// memStore backs every fake repository with maps guarded by one mutex.
type memStore struct {
	mu        sync.Mutex
	profiles  map[string]*entity.BusinessProfile
	customers map[string]*entity.Customer
	invoices  map[string]*entity.Invoice
	items     map[string][]*entity.InvoiceItem
	locks     int
	txCount   int
	failTx    error
	// afterLoad runs under the lock once GetByID has copied an invoice,
	// letting a test change the stored row before the caller writes.
	afterLoad func(stored *entity.Invoice)
}

func newMemStore() *memStore {
	return &memStore{
		profiles:  map[string]*entity.BusinessProfile{},
		customers: map[string]*entity.Customer{},
		invoices:  map[string]*entity.Invoice{},
		items:     map[string][]*entity.InvoiceItem{},
	}
}

// RunBilling has no rollback; tests that need atomicity assert on failTx instead.
func (s *memStore) RunBilling(_ context.Context, fn func(repository.CustomerRepository, repository.InvoiceRepository) error) error {
	s.txCount++
	if s.failTx != nil {
		return s.failTx
	}
	return fn(memCustomers{s}, memInvoices{s})
}

type memProfiles struct{ s *memStore }

func (r memProfiles) GetByUserID(_ context.Context, userID string) (*entity.BusinessProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r memProfiles) Upsert(_ context.Context, p *entity.BusinessProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.profiles[p.UserID] = &cp
	return nil
}

func (r memProfiles) UpdateLogo(_ context.Context, userID, path string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.profiles[userID].LogoPath = path
	return nil
}

type memCustomers struct{ s *memStore }

func (r memCustomers) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r memCustomers) GetByID(_ context.Context, userID, id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r memCustomers) GetByGSTIN(_ context.Context, userID, gstin string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.UserID == userID && c.GSTIN == gstin {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memCustomers) List(_ context.Context, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Customer
	q := strings.ToLower(f.Search)
	for _, c := range r.s.customers {
		if c.UserID != f.UserID {
			continue
		}
		hay := strings.ToLower(c.Name + " " + c.Email + " " + c.Phone + " " + c.GSTIN)
		if q != "" && !strings.Contains(hay, q) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r memCustomers) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r memCustomers) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.customers, id)
	return nil
}

func (r memCustomers) CountInvoices(_ context.Context, userID, customerID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, inv := range r.s.invoices {
		if inv.UserID == userID && inv.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (r memCustomers) CountForUser(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, c := range r.s.customers {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

type memInvoices struct{ s *memStore }

func (r memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.invoices {
		if other.UserID == inv.UserID && other.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *inv
	r.s.invoices[inv.ID] = &cp
	return nil
}

func (r memInvoices) CreateItems(_ context.Context, items []*entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range items {
		cp := *it
		r.s.items[it.InvoiceID] = append(r.s.items[it.InvoiceID], &cp)
	}
	return nil
}

func (r memInvoices) Update(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.invoices[inv.ID]
	if !ok || old.UserID != inv.UserID {
		return domain.ErrNotFound
	}
	if old.Status != inv.Status {
		return domain.ErrConflict
	}
	cp := *inv
	cp.InvoiceNumber = old.InvoiceNumber
	r.s.invoices[inv.ID] = &cp
	return nil
}

func (r memInvoices) UpdateStatus(_ context.Context, userID, id, from, to string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.UserID != userID {
		return domain.ErrNotFound
	}
	if inv.Status != from {
		return domain.ErrConflict
	}
	inv.Status = to
	return nil
}

func (r memInvoices) Delete(_ context.Context, userID, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.UserID != userID {
		return domain.ErrNotFound
	}
	if inv.Status != status {
		return domain.ErrConflict
	}
	delete(r.s.invoices, id)
	delete(r.s.items, id)
	return nil
}

func (r memInvoices) DeleteItems(_ context.Context, invoiceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.items, invoiceID)
	return nil
}

func (r memInvoices) GetByID(_ context.Context, userID, id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.UserID != userID {
		return nil, nil
	}
	cp := *inv
	if r.s.afterLoad != nil {
		r.s.afterLoad(inv)
	}
	return &cp, nil
}

func (r memInvoices) GetItems(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]*entity.InvoiceItem(nil), r.s.items[invoiceID]...), nil
}

func (r memInvoices) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.UserID != f.UserID || (f.Status != "" && inv.Status != f.Status) {
			continue
		}
		if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber > out[j].InvoiceNumber })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r memInvoices) CountInvoicesForUser(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, inv := range r.s.invoices {
		if inv.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r memInvoices) NumberExists(_ context.Context, userID, number string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.UserID == userID && inv.InvoiceNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r memInvoices) LockUserSequence(context.Context, string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.locks++
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

type countingInvalidator struct {
	mu    sync.Mutex
	users []string
	err   error
}

func (c *countingInvalidator) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(c.users, userID)
	return c.err
}
