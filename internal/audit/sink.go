// Package audit provides a fire-and-forget sink for security and financial
// audit entries. Recording never blocks the caller and never returns an
// error; a saturated buffer drops the entry with a log line.
package audit

import (
	"log"
	"sync"

	"plume/internal/models"
)

// Store persists audit rows; satisfied by repository.AuditLogRepository.
type Store interface {
	Create(e *models.AuditLog) error
}

type Entry struct {
	UserID     *uint
	Actor      string
	Action     string
	Resource   string
	ResourceID string
	Severity   string
	IP         string
	UserAgent  string
	Details    string
}

type Sink struct {
	repo Store
	ch   chan Entry
	wg   sync.WaitGroup

	closeOnce sync.Once
}

func NewSink(repo Store, buffer int) *Sink {
	if buffer <= 0 {
		buffer = 256
	}
	s := &Sink{repo: repo, ch: make(chan Entry, buffer)}
	s.wg.Add(1)
	go s.drain()
	return s
}

// Record enqueues an entry. Must never block the payment-critical path.
func (s *Sink) Record(e Entry) {
	select {
	case s.ch <- e:
	default:
		log.Printf("[AUDIT] buffer full, dropping entry action=%s resource=%s/%s", e.Action, e.Resource, e.ResourceID)
	}
}

func (s *Sink) drain() {
	defer s.wg.Done()
	for e := range s.ch {
		row := &models.AuditLog{
			UserID:     e.UserID,
			Actor:      e.Actor,
			Action:     e.Action,
			Resource:   e.Resource,
			ResourceID: e.ResourceID,
			Severity:   e.Severity,
			IP:         e.IP,
			UserAgent:  e.UserAgent,
			Details:    e.Details,
		}
		if err := s.repo.Create(row); err != nil {
			log.Printf("[AUDIT] persist failed action=%s: %v", e.Action, err)
		}
	}
}

// Close flushes buffered entries and stops the drain goroutine.
func (s *Sink) Close() {
	s.closeOnce.Do(func() {
		close(s.ch)
	})
	s.wg.Wait()
}
