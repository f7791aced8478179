package repository

import (
	"container/list"
	"context"
	"sort"
	"sync"

	"github.com/piresc/payon/internal/pkg/models"
	"github.com/piresc/payon/services/tracker"
)

const (
	// DefaultMemoryCapacity bounds the diagnostics kept per transaction in memory
	DefaultMemoryCapacity = 100
	// DefaultMemoryTransactions bounds how many transactions keep diagnostics in memory
	DefaultMemoryTransactions = 1000
)

type txEntry struct {
	transactionID string
	diagnostics   []models.Diagnostic
}

// MemoryDiagnosticRepo keeps recent diagnostics in process. It is used when
// no database is configured. Once maxTx transactions are held, recording for a
// new one evicts the transaction written least recently.
type MemoryDiagnosticRepo struct {
	mu       sync.Mutex
	capacity int
	maxTx    int
	order    *list.List
	byTx     map[string]*list.Element
}

// NewMemoryDiagnosticRepository creates an in-memory repository
func NewMemoryDiagnosticRepository(capacity, maxTransactions int) tracker.DiagnosticRepo {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	if maxTransactions <= 0 {
		maxTransactions = DefaultMemoryTransactions
	}
	return &MemoryDiagnosticRepo{
		capacity: capacity,
		maxTx:    maxTransactions,
		order:    list.New(),
		byTx:     make(map[string]*list.Element),
	}
}

// Record appends d, evicting the oldest entry once capacity is reached
func (r *MemoryDiagnosticRepo) Record(_ context.Context, d *models.Diagnostic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	el, ok := r.byTx[d.TransactionID]
	if ok {
		r.order.MoveToFront(el)
	} else {
		el = r.order.PushFront(&txEntry{transactionID: d.TransactionID})
		r.byTx[d.TransactionID] = el
		for r.order.Len() > r.maxTx {
			oldest := r.order.Back()
			r.order.Remove(oldest)
			delete(r.byTx, oldest.Value.(*txEntry).transactionID)
		}
	}

	entry := el.Value.(*txEntry)
	entry.diagnostics = append(entry.diagnostics, *d)
	if len(entry.diagnostics) > r.capacity {
		entry.diagnostics = append([]models.Diagnostic(nil), entry.diagnostics[len(entry.diagnostics)-r.capacity:]...)
	}
	return nil
}

// ListByTransaction returns up to limit diagnostics, newest first
func (r *MemoryDiagnosticRepo) ListByTransaction(_ context.Context, transactionID string, limit int) ([]models.Diagnostic, error) {
	r.mu.Lock()
	var out []models.Diagnostic
	if el, ok := r.byTx[transactionID]; ok {
		out = append(out, el.Value.(*txEntry).diagnostics...)
	}
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ObservedAt.After(out[j].ObservedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
