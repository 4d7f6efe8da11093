package payments

import (
	"context"
	"errors"
	"sync"
	"time"

	"plume/internal/audit"
	"plume/internal/domain"
	"plume/internal/models"

	"gorm.io/gorm"
)

// memStore is an in-memory OrderStore with the same CAS semantics as
// OrderRepository.
type memStore struct {
	mu     sync.Mutex
	orders map[uint]*models.Order
}

func newMemStore(orders ...*models.Order) *memStore {
	s := &memStore{orders: make(map[uint]*models.Order)}
	for _, o := range orders {
		cp := *o
		s.orders[o.ID] = &cp
	}
	return s
}

func (s *memStore) get(id uint) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orders[id]
	if o == nil {
		return nil
	}
	cp := *o
	return &cp
}

func (s *memStore) GetByIDForOwner(id, ownerID uint) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orders[id]
	if o == nil || o.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *memStore) GetBySessionID(sessionID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ProcessorSessionID != nil && *o.ProcessorSessionID == sessionID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) GetByNumber(number string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.Number == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) ClaimCheckoutSession(id uint, sessionID, priceRef string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orders[id]
	if o == nil || o.PaymentStatus != domain.PaymentUnset || o.ProcessorSessionID != nil {
		return false, nil
	}
	sid := sessionID
	o.ProcessorSessionID = &sid
	o.PaymentStatus = domain.PaymentUnpaid
	o.PriceRef = priceRef
	return true, nil
}

func (s *memStore) MarkPaid(id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orders[id]
	if o == nil || o.PaymentStatus == domain.PaymentPaid {
		return false, nil
	}
	now := time.Now()
	o.PaymentStatus = domain.PaymentPaid
	o.Status = domain.OrderInProgress
	o.PaidAt = &now
	return true, nil
}

func (s *memStore) ConditionalUpdatePaymentStatus(id uint, expected, next string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orders[id]
	if o == nil || o.PaymentStatus != expected {
		return false, nil
	}
	o.PaymentStatus = next
	return true, nil
}

// errStore fails every mutation, simulating a transient storage outage.
type errStore struct {
	*memStore
}

var errStorage = errors.New("storage down")

func (s *errStore) MarkPaid(id uint) (bool, error) { return false, errStorage }
func (s *errStore) ConditionalUpdatePaymentStatus(id uint, expected, next string) (bool, error) {
	return false, errStorage
}

type recordSink struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (s *recordSink) Record(e audit.Entry) {
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
}

func (s *recordSink) byAction(action string) []audit.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []audit.Entry
	for _, e := range s.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type countInvoices struct {
	mu    sync.Mutex
	calls []uint // order ids
	err   error
}

func (g *countInvoices) Generate(ctx context.Context, o *models.Order) (*models.Invoice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.calls = append(g.calls, o.ID)
	return &models.Invoice{Number: "INV-2026-000001", OrderID: o.ID, AmountCents: o.AmountCents}, nil
}

func (g *countInvoices) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type countNotifier struct {
	mu    sync.Mutex
	user  int
	staff int
	err   error
}

func (n *countNotifier) Notify(ctx context.Context, userID uint, event, title, body string, data map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.user++
	return nil
}

func (n *countNotifier) NotifyStaff(ctx context.Context, event, title, body string, data map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.staff++
	return nil
}

func (n *countNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.user, n.staff
}
