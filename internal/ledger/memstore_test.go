package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"debt-ledger-backend/internal/models"
)

// memDB is an in-memory stand-in for the persistence layer, implementing the
// same matched/deleted-count semantics as the SQL repositories. fail injects
// an error for a named operation to exercise partial-write handling.
type memDB struct {
	mu        sync.Mutex
	customers map[uuid.UUID]models.Customer
	debts     map[uuid.UUID]models.Debt
	payments  map[uuid.UUID]models.Payment
	audits    []models.LedgerAuditLog
	fail      map[string]error
}

func newMemDB() *memDB {
	return &memDB{
		customers: make(map[uuid.UUID]models.Customer),
		debts:     make(map[uuid.UUID]models.Debt),
		payments:  make(map[uuid.UUID]models.Payment),
		fail:      make(map[string]error),
	}
}

func (db *memDB) failure(op string) error { return db.fail[op] }

func isSweepable(s models.DebtStatus) bool {
	return s == models.DebtPending || s == models.DebtPartial || s == models.DebtOverdue
}

type memCustomers struct{ db *memDB }

func (m *memCustomers) Get(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.db.failure("customers.Get"); err != nil {
		return nil, err
	}
	c, ok := m.db.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return &c, nil
}

func (m *memCustomers) Search(_ context.Context, term string) ([]models.Customer, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []models.Customer
	for _, c := range m.db.customers {
		if term == "" ||
			strings.Contains(strings.ToLower(c.Name), strings.ToLower(term)) ||
			strings.Contains(c.Phone, term) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCustomers) Insert(_ context.Context, c *models.Customer) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.db.failure("customers.Insert"); err != nil {
		return err
	}
	m.db.customers[c.ID] = *c
	return nil
}

func (m *memCustomers) UpdateProfile(_ context.Context, id uuid.UUID, fields map[string]any) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	c, ok := m.db.customers[id]
	if !ok {
		return false, nil
	}
	if v, ok := fields["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := fields["phone"]; ok {
		c.Phone = v.(string)
	}
	if v, ok := fields["address"]; ok {
		c.Address = v.(string)
	}
	if v, ok := fields["email"]; ok {
		c.Email = v.(string)
	}
	if v, ok := fields["notes"]; ok {
		c.Notes = v.(string)
	}
	m.db.customers[id] = c
	return true, nil
}

func (m *memCustomers) ApplyDelta(_ context.Context, id uuid.UUID, delta CustomerDelta) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.db.failure("customers.ApplyDelta"); err != nil {
		return false, err
	}
	c, ok := m.db.customers[id]
	if !ok {
		return false, nil
	}
	c.TotalDebt = c.TotalDebt.Add(delta.TotalDebt)
	c.TotalPaid = c.TotalPaid.Add(delta.TotalPaid)
	m.db.customers[id] = c
	return true, nil
}

func (m *memCustomers) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.customers[id]; !ok {
		return 0, nil
	}
	delete(m.db.customers, id)
	return 1, nil
}

func (m *memCustomers) Count(_ context.Context) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	return int64(len(m.db.customers)), nil
}

func (m *memCustomers) Totals(_ context.Context) (decimal.Decimal, decimal.Decimal, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	debt, paid := decimal.Zero, decimal.Zero
	for _, c := range m.db.customers {
		debt = debt.Add(c.TotalDebt)
		paid = paid.Add(c.TotalPaid)
	}
	return debt, paid, nil
}

type memDebts struct{ db *memDB }

func (m *memDebts) Get(_ context.Context, id uuid.UUID) (*models.Debt, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.db.failure("debts.Get"); err != nil {
		return nil, err
	}
	d, ok := m.db.debts[id]
	if !ok {
		return nil, ErrDebtNotFound
	}
	return &d, nil
}

func (m *memDebts) List(_ context.Context, f DebtFilter) ([]models.Debt, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []models.Debt
	for _, d := range m.db.debts {
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.CustomerID != nil && (d.CustomerID == nil || *d.CustomerID != *f.CustomerID) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *memDebts) ListOverdue(_ context.Context, now time.Time) ([]models.Debt, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []models.Debt
	for _, d := range m.db.debts {
		if d.DueDate != nil && d.DueDate.Before(now) && isSweepable(d.Status) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDebts) Insert(_ context.Context, d *models.Debt) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.db.failure("debts.Insert"); err != nil {
		return err
	}
	m.db.debts[d.ID] = *d
	return nil
}

func (m *memDebts) SetBalance(_ context.Context, id uuid.UUID, expectPaid decimal.Decimal, b Balance) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.db.failure("debts.SetBalance"); err != nil {
		return false, err
	}
	d, ok := m.db.debts[id]
	if !ok || !d.PaidAmount.Equal(expectPaid) {
		return false, nil
	}
	d.PaidAmount = b.Paid
	d.RemainingAmount = b.Remaining
	d.Status = b.Status
	m.db.debts[id] = d
	return true, nil
}

func (m *memDebts) SetStatus(_ context.Context, id uuid.UUID, status models.DebtStatus) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.db.failure("debts.SetStatus"); err != nil {
		return false, err
	}
	d, ok := m.db.debts[id]
	if !ok {
		return false, nil
	}
	d.Status = status
	m.db.debts[id] = d
	return true, nil
}

func (m *memDebts) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.db.failure("debts.Delete"); err != nil {
		return 0, err
	}
	if _, ok := m.db.debts[id]; !ok {
		return 0, nil
	}
	delete(m.db.debts, id)
	return 1, nil
}

func (m *memDebts) DeletePaidFor(_ context.Context, customerID uuid.UUID) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var deleted int64
	for id, d := range m.db.debts {
		if d.CustomerID != nil && *d.CustomerID == customerID && d.Status == models.DebtPaid {
			delete(m.db.debts, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memDebts) CountOverdue(_ context.Context, now time.Time) (int64, error) {
	overdue, err := m.ListOverdue(context.Background(), now)
	return int64(len(overdue)), err
}

type memPayments struct{ db *memDB }

func (m *memPayments) Get(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	p, ok := m.db.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return &p, nil
}

func (m *memPayments) List(_ context.Context, f PaymentFilter) ([]models.Payment, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []models.Payment
	for _, p := range m.db.payments {
		if f.CustomerID != nil && p.CustomerID != *f.CustomerID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentDate.After(out[j].PaymentDate) })
	return out, nil
}

func (m *memPayments) Recent(ctx context.Context, n int) ([]models.Payment, error) {
	all, err := m.List(ctx, PaymentFilter{})
	if err != nil {
		return nil, err
	}
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (m *memPayments) Insert(_ context.Context, p *models.Payment) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.db.failure("payments.Insert"); err != nil {
		return err
	}
	m.db.payments[p.ID] = *p
	return nil
}

func (m *memPayments) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.db.failure("payments.Delete"); err != nil {
		return 0, err
	}
	if _, ok := m.db.payments[id]; !ok {
		return 0, nil
	}
	delete(m.db.payments, id)
	return 1, nil
}

type memAudit struct{ db *memDB }

func (m *memAudit) Append(_ context.Context, entry *models.LedgerAuditLog) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.audits = append(m.db.audits, *entry)
	return nil
}

func newTestService() (*Service, *memDB) {
	db := newMemDB()
	s := NewService(&memCustomers{db}, &memDebts{db}, &memPayments{db}, &memAudit{db})
	return s, db
}
