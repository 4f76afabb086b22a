package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"debt-ledger-backend/internal/models"
)

// Service sequences store reads, invariant computations and store writes for
// every mutating operation. The read-compute-write sequence for a debt is
// serialized with a per-debt mutex; customer aggregate updates are plain
// increments and run unguarded. Every store call carries a timeout.
type Service struct {
	customers CustomerStore
	debts     DebtStore
	payments  PaymentStore
	audit     AuditStore

	timeout   time.Duration
	now       func() time.Time
	debtLocks keyedMutex
}

func NewService(customers CustomerStore, debts DebtStore, payments PaymentStore, audit AuditStore) *Service {
	return &Service{
		customers: customers,
		debts:     debts,
		payments:  payments,
		audit:     audit,
		timeout:   5 * time.Second,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetStoreTimeout overrides the per-call store timeout (default 5s).
func (s *Service) SetStoreTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// ===== CUSTOMERS =====

type CreateCustomerInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Notes   string `json:"notes"`
}

type UpdateCustomerInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Email   *string `json:"email"`
	Notes   *string `json:"notes"`
}

func (s *Service) CreateCustomer(ctx context.Context, in CreateCustomerInput) (*models.Customer, error) {
	customer := &models.Customer{
		ID:        uuid.New(),
		Name:      in.Name,
		Phone:     in.Phone,
		Address:   in.Address,
		Email:     in.Email,
		Notes:     in.Notes,
		TotalDebt: decimal.Zero,
		TotalPaid: decimal.Zero,
		CreatedAt: s.now(),
	}

	ictx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.customers.Insert(ictx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	gctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.customers.Get(gctx, id)
}

func (s *Service) SearchCustomers(ctx context.Context, term string) ([]models.Customer, error) {
	gctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.customers.Search(gctx, term)
}

// UpdateCustomer changes profile fields only. Aggregates are never writable
// here, and debts/payments keep the customer name they captured at creation.
func (s *Service) UpdateCustomer(ctx context.Context, id uuid.UUID, in UpdateCustomerInput) (*models.Customer, error) {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.Address != nil {
		fields["address"] = *in.Address
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.Notes != nil {
		fields["notes"] = *in.Notes
	}
	if len(fields) == 0 {
		return nil, ErrNoUpdates
	}

	uctx, cancel := s.storeCtx(ctx)
	matched, err := s.customers.UpdateProfile(uctx, id, fields)
	cancel()
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrCustomerNotFound
	}
	return s.GetCustomer(ctx, id)
}

// DeleteCustomer is deliberately cascadeless: the customer's debts and
// payments survive as orphans and every read path tolerates them.
func (s *Service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	dctx, cancel := s.storeCtx(ctx)
	defer cancel()
	deleted, err := s.customers.Delete(dctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// PurgePaidDebts bulk-deletes a customer's fully paid debts. Their remaining
// amount is zero, so no aggregate correction is needed.
func (s *Service) PurgePaidDebts(ctx context.Context, customerID uuid.UUID) (int64, error) {
	dctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.debts.DeletePaidFor(dctx, customerID)
}

// ===== DEBTS =====

type CreateDebtInput struct {
	CustomerID      uuid.UUID       `json:"customer_id"`
	Description     string          `json:"description"`
	ProductType     string          `json:"product_type"`
	InstallmentType string          `json:"installment_type"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DueDate         *time.Time      `json:"due_date"`
}

func (s *Service) CreateDebt(ctx context.Context, in CreateDebtInput) (*models.Debt, error) {
	gctx, cancel := s.storeCtx(ctx)
	customer, err := s.customers.Get(gctx, in.CustomerID)
	cancel()
	if err != nil {
		return nil, err
	}

	balance, delta, err := NewDebtBalance(in.TotalAmount)
	if err != nil {
		return nil, err
	}

	debt := &models.Debt{
		ID:              uuid.New(),
		CustomerID:      &in.CustomerID,
		CustomerName:    customer.Name,
		Description:     in.Description,
		ProductType:     in.ProductType,
		InstallmentType: in.InstallmentType,
		TotalAmount:     in.TotalAmount,
		PaidAmount:      balance.Paid,
		RemainingAmount: balance.Remaining,
		Status:          balance.Status,
		DueDate:         in.DueDate,
		CreatedAt:       s.now(),
	}

	ictx, cancel := s.storeCtx(ctx)
	err = s.debts.Insert(ictx, debt)
	cancel()
	if err != nil {
		return nil, err
	}

	uctx, cancel := s.storeCtx(ctx)
	_, err = s.customers.ApplyDelta(uctx, in.CustomerID, delta)
	cancel()
	if err != nil {
		return nil, &InconsistentStateError{
			Op:      "create debt",
			Applied: []string{"debt inserted"},
			Err:     err,
		}
	}

	s.recordAudit(ctx, "create_debt", &debt.ID, nil, debt.CustomerID, map[string]any{
		"total_amount": debt.TotalAmount,
	})
	return debt, nil
}

func (s *Service) GetDebt(ctx context.Context, id uuid.UUID) (*models.Debt, error) {
	gctx, cancel := s.storeCtx(ctx)
	debt, err := s.debts.Get(gctx, id)
	cancel()
	if err != nil {
		return nil, err
	}

	one := []models.Debt{*debt}
	if err := s.reconcileOverdue(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *Service) ListDebts(ctx context.Context, f DebtFilter) ([]models.Debt, error) {
	gctx, cancel := s.storeCtx(ctx)
	debts, err := s.debts.List(gctx, f)
	cancel()
	if err != nil {
		return nil, err
	}
	if err := s.reconcileOverdue(ctx, debts); err != nil {
		return nil, err
	}
	return debts, nil
}

func (s *Service) ListOverdueDebts(ctx context.Context) ([]models.Debt, error) {
	gctx, cancel := s.storeCtx(ctx)
	debts, err := s.debts.ListOverdue(gctx, s.now())
	cancel()
	if err != nil {
		return nil, err
	}
	if err := s.reconcileOverdue(ctx, debts); err != nil {
		return nil, err
	}
	return debts, nil
}

func (s *Service) DeleteDebt(ctx context.Context, id uuid.UUID) error {
	unlock := s.debtLocks.lock(id)
	defer unlock()

	gctx, cancel := s.storeCtx(ctx)
	debt, err := s.debts.Get(gctx, id)
	cancel()
	if err != nil {
		return err
	}

	delta := ReverseDebtRemoval(debt)
	var applied []string
	if debt.CustomerID != nil {
		uctx, cancel := s.storeCtx(ctx)
		_, err = s.customers.ApplyDelta(uctx, *debt.CustomerID, delta)
		cancel()
		if err != nil {
			return err
		}
		applied = append(applied, "customer total_debt decremented")
	}

	dctx, cancel := s.storeCtx(ctx)
	deleted, err := s.debts.Delete(dctx, id)
	cancel()
	if err != nil || deleted == 0 {
		if err == nil {
			err = ErrDebtNotFound
		}
		if len(applied) == 0 {
			return err
		}
		return &InconsistentStateError{
			Op:      "delete debt",
			Applied: applied,
			Err:     err,
		}
	}

	s.recordAudit(ctx, "delete_debt", &id, nil, debt.CustomerID, map[string]any{
		"remaining_amount": debt.RemainingAmount,
	})
	return nil
}

// reconcileOverdue is the lazy sweep: every read path that surfaces debts
// runs it, so stored status never diverges from what (due_date, now) implies.
// Promotions are persisted before the debts are returned.
func (s *Service) reconcileOverdue(ctx context.Context, debts []models.Debt) error {
	now := s.now()
	for i := range debts {
		status, changed := SweepStatus(&debts[i], now)
		if !changed {
			continue
		}
		uctx, cancel := s.storeCtx(ctx)
		_, err := s.debts.SetStatus(uctx, debts[i].ID, status)
		cancel()
		if err != nil {
			return err
		}
		debts[i].Status = status
	}
	return nil
}

// ===== PAYMENTS =====

type CreatePaymentInput struct {
	DebtID        uuid.UUID       `json:"debt_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

func (s *Service) CreatePayment(ctx context.Context, in CreatePaymentInput) (*models.Payment, error) {
	unlock := s.debtLocks.lock(in.DebtID)
	defer unlock()

	gctx, cancel := s.storeCtx(ctx)
	debt, err := s.debts.Get(gctx, in.DebtID)
	cancel()
	if err != nil {
		return nil, err
	}

	balance, delta, err := ApplyPayment(debt, in.Amount)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:            uuid.New(),
		DebtID:        debt.ID,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		PaymentDate:   s.now(),
	}
	if debt.CustomerID != nil {
		payment.CustomerID = *debt.CustomerID
		cctx, cancel := s.storeCtx(ctx)
		customer, err := s.customers.Get(cctx, *debt.CustomerID)
		cancel()
		if err == nil {
			payment.CustomerName = customer.Name
		} else if !errors.Is(err, ErrCustomerNotFound) {
			return nil, err
		}
	}

	ictx, cancel := s.storeCtx(ctx)
	err = s.payments.Insert(ictx, payment)
	cancel()
	if err != nil {
		return nil, err
	}

	uctx, cancel := s.storeCtx(ctx)
	matched, err := s.debts.SetBalance(uctx, debt.ID, debt.PaidAmount, balance)
	cancel()
	if err != nil || !matched {
		if err == nil {
			err = ErrConflict
		}
		return nil, &InconsistentStateError{
			Op:      "create payment",
			Applied: []string{"payment inserted"},
			Err:     err,
		}
	}

	if debt.CustomerID != nil {
		uctx, cancel := s.storeCtx(ctx)
		_, err = s.customers.ApplyDelta(uctx, *debt.CustomerID, delta)
		cancel()
		if err != nil {
			return nil, &InconsistentStateError{
				Op:      "create payment",
				Applied: []string{"payment inserted", "debt balance set"},
				Err:     err,
			}
		}
	}

	s.recordAudit(ctx, "create_payment", &debt.ID, &payment.ID, debt.CustomerID, map[string]any{
		"amount":        in.Amount,
		"new_paid":      balance.Paid,
		"new_remaining": balance.Remaining,
		"new_status":    balance.Status,
	})
	return payment, nil
}

func (s *Service) ListPayments(ctx context.Context, f PaymentFilter) ([]models.Payment, error) {
	gctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.payments.List(gctx, f)
}

// DeletePayment reverses the payment's effect on its debt and customer, then
// removes the record. If the debt was independently deleted, the corrections
// are skipped and only the payment is removed.
func (s *Service) DeletePayment(ctx context.Context, id uuid.UUID) error {
	gctx, cancel := s.storeCtx(ctx)
	payment, err := s.payments.Get(gctx, id)
	cancel()
	if err != nil {
		return err
	}

	unlock := s.debtLocks.lock(payment.DebtID)
	defer unlock()

	// Re-read under the lock; a concurrent delete of the same payment must
	// not reverse the debt twice.
	gctx, cancel = s.storeCtx(ctx)
	payment, err = s.payments.Get(gctx, id)
	cancel()
	if err != nil {
		return err
	}

	dctx, cancel := s.storeCtx(ctx)
	debt, err := s.debts.Get(dctx, payment.DebtID)
	cancel()
	var applied []string
	switch {
	case err == nil:
		balance, delta := ReversePayment(debt, payment.Amount)

		uctx, cancel := s.storeCtx(ctx)
		matched, err := s.debts.SetBalance(uctx, debt.ID, debt.PaidAmount, balance)
		cancel()
		if err != nil || !matched {
			if err == nil {
				err = ErrConflict
			}
			return err
		}
		applied = append(applied, "debt balance reverted")

		if debt.CustomerID != nil {
			uctx, cancel := s.storeCtx(ctx)
			_, err = s.customers.ApplyDelta(uctx, *debt.CustomerID, delta)
			cancel()
			if err != nil {
				return &InconsistentStateError{
					Op:      "delete payment",
					Applied: applied,
					Err:     err,
				}
			}
			applied = append(applied, "customer totals reverted")
		}
	case errors.Is(err, ErrDebtNotFound):
		// Debt already gone; nothing to correct.
	default:
		return err
	}

	delctx, cancel := s.storeCtx(ctx)
	deleted, err := s.payments.Delete(delctx, id)
	cancel()
	if err != nil || deleted == 0 {
		if err == nil {
			err = ErrPaymentNotFound
		}
		if len(applied) == 0 {
			return err
		}
		return &InconsistentStateError{
			Op:      "delete payment",
			Applied: applied,
			Err:     err,
		}
	}

	s.recordAudit(ctx, "delete_payment", &payment.DebtID, &id, nil, map[string]any{
		"amount": payment.Amount,
	})
	return nil
}

// ===== DASHBOARD & EXPORT =====

type DashboardStats struct {
	TotalCustomers int64            `json:"total_customers"`
	TotalDebt      decimal.Decimal  `json:"total_debts"`
	TotalPaid      decimal.Decimal  `json:"total_paid"`
	TotalPending   decimal.Decimal  `json:"total_pending"`
	OverdueDebts   int64            `json:"overdue_debts"`
	RecentPayments []models.Payment `json:"recent_payments"`
}

type ExportBundle struct {
	Customers  []models.Customer `json:"customers"`
	Debts      []models.Debt     `json:"debts"`
	Payments   []models.Payment  `json:"payments"`
	ExportedAt time.Time         `json:"exported_at"`
}

// DashboardStats recomputes every figure from current store state; nothing
// is cached.
func (s *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	cctx, cancel := s.storeCtx(ctx)
	customers, err := s.customers.Count(cctx)
	cancel()
	if err != nil {
		return nil, err
	}

	tctx, cancel := s.storeCtx(ctx)
	totalDebt, totalPaid, err := s.customers.Totals(tctx)
	cancel()
	if err != nil {
		return nil, err
	}

	octx, cancel := s.storeCtx(ctx)
	overdue, err := s.debts.CountOverdue(octx, s.now())
	cancel()
	if err != nil {
		return nil, err
	}

	rctx, cancel := s.storeCtx(ctx)
	recent, err := s.payments.Recent(rctx, 5)
	cancel()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalCustomers: customers,
		TotalDebt:      totalDebt,
		TotalPaid:      totalPaid,
		TotalPending:   totalDebt,
		OverdueDebts:   overdue,
		RecentPayments: recent,
	}, nil
}

func (s *Service) ExportAll(ctx context.Context) (*ExportBundle, error) {
	cctx, cancel := s.storeCtx(ctx)
	customers, err := s.customers.Search(cctx, "")
	cancel()
	if err != nil {
		return nil, err
	}

	debts, err := s.ListDebts(ctx, DebtFilter{})
	if err != nil {
		return nil, err
	}

	pctx, cancel := s.storeCtx(ctx)
	payments, err := s.payments.List(pctx, PaymentFilter{})
	cancel()
	if err != nil {
		return nil, err
	}

	return &ExportBundle{
		Customers:  customers,
		Debts:      debts,
		Payments:   payments,
		ExportedAt: s.now(),
	}, nil
}

// recordAudit appends a mutation record. Audit failures never fail the
// mutation itself.
func (s *Service) recordAudit(ctx context.Context, action string, debtID, paymentID, customerID *uuid.UUID, details map[string]any) {
	if s.audit == nil {
		return
	}
	raw, err := json.Marshal(details)
	if err != nil {
		log.Println("audit: marshal details failed:", err)
		return
	}
	entry := &models.LedgerAuditLog{
		ID:         uuid.New(),
		Action:     action,
		DebtID:     debtID,
		PaymentID:  paymentID,
		CustomerID: customerID,
		Details:    datatypes.JSON(raw),
		CreatedAt:  s.now(),
	}
	actx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.audit.Append(actx, entry); err != nil {
		log.Println("audit: append failed:", err)
	}
}
