package models

import "time"

// Expense represents a single expense record. OwnerID is stamped from the
// authenticated principal at creation time and is immutable afterwards; it
// is never accepted from client input.
type Expense struct {
	ID       int64     `db:"id" json:"id"`
	OwnerID  int64     `db:"owner_id" json:"-"`
	Title    string    `db:"title" json:"title"`
	Amount   float64   `db:"amount" json:"amount"`
	Category string    `db:"category" json:"category"`
	Date     time.Time `db:"date" json:"date"`
}

// ExpenseFilter holds the optional list filters. Category matches
// case-insensitively. The date range is inclusive and only applies when
// both ends are present.
type ExpenseFilter struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}
