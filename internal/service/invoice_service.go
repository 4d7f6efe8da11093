package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"plume/internal/models"
	"plume/internal/repository"
)

// InvoiceService generates invoices for paid orders. Generation is
// idempotent per order: the unique index on invoices.order_id guarantees at
// most one row even when two webhook deliveries race.
type InvoiceService struct {
	repo *repository.InvoiceRepository

	mu sync.Mutex // serializes number allocation within this process
}

func NewInvoiceService(repo *repository.InvoiceRepository) *InvoiceService {
	return &InvoiceService{repo: repo}
}

func (s *InvoiceService) Generate(ctx context.Context, o *models.Order) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	seq, err := s.repo.CountForYear(ctx, now.Year())
	if err != nil {
		return nil, err
	}
	inv := &models.Invoice{
		Number:      fmt.Sprintf("INV-%d-%06d", now.Year(), seq+1),
		OrderID:     o.ID,
		UserID:      o.OwnerID,
		AmountCents: o.AmountCents,
		Currency:    o.Currency,
		IssuedAt:    now,
	}
	inv, created, err := s.repo.CreateIfAbsent(ctx, inv)
	if err != nil {
		return nil, err
	}
	if !created {
		log.Printf("[INVOICE] order=%s already invoiced as %s", o.Number, inv.Number)
	}
	return inv, nil
}
