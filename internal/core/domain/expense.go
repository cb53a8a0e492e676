package domain

import "time"

// Categorisation is the enrichment collaborator's classification of a document.
type Categorisation struct {
	Tags     []string
	Category string
	Summary  string
}

// Receipt is expense data recovered from a document's text.
type Receipt struct {
	Vendor      string
	Date        string
	Amount      float64
	Category    string
	Description string
}

// HasAmount reports whether the receipt carries a usable amount.
func (r *Receipt) HasAmount() bool {
	return r != nil && r.Amount > 0
}

// ExpenseStatus is the review state of an expense.
type ExpenseStatus string

// Expense states.
const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
)

// Receipt categories recognised by enrichment.
var ExpenseCategories = []string{"travel", "meals", "supplies", "lodging", "fuel", "parking", "other"}

// Expense is a reimbursable item created from a receipt.
type Expense struct {
	ID          string
	DocumentID  string
	Vendor      string
	Date        string
	Amount      float64
	Category    string
	Description string
	Status      ExpenseStatus
	CreatedAt   time.Time
}

// ExpenseFromReceipt builds a pending expense linked to a document.
// Unknown categories are recorded as "other".
func ExpenseFromReceipt(documentID string, r *Receipt) Expense {
	category := "other"
	for _, c := range ExpenseCategories {
		if r.Category == c {
			category = c
			break
		}
	}
	return Expense{
		DocumentID:  documentID,
		Vendor:      r.Vendor,
		Date:        r.Date,
		Amount:      r.Amount,
		Category:    category,
		Description: r.Description,
		Status:      ExpensePending,
	}
}
