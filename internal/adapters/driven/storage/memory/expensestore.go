package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

// Ensure ExpenseStore implements the interface.
var _ driven.ExpenseStore = (*ExpenseStore)(nil)

// ExpenseStore is an in-memory implementation of driven.ExpenseStore.
type ExpenseStore struct {
	mu       sync.RWMutex
	expenses []domain.Expense
}

// NewExpenseStore creates a new in-memory expense store.
func NewExpenseStore() *ExpenseStore {
	return &ExpenseStore{}
}

// SaveExpense inserts an expense.
func (s *ExpenseStore) SaveExpense(_ context.Context, expense *domain.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == expense.ID {
			return domain.ErrAlreadyExists
		}
	}
	s.expenses = append(s.expenses, *expense)
	return nil
}

// ListExpenses returns expenses linked to a document in insertion order.
func (s *ExpenseStore) ListExpenses(_ context.Context, documentID string) ([]domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Expense
	for i := range s.expenses {
		if s.expenses[i].DocumentID == documentID {
			result = append(result, s.expenses[i])
		}
	}
	return result, nil
}
