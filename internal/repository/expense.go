package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"expensetracker/internal/models"
)

// ExpenseRepository persists expense records. Every lookup and mutation is
// predicated on the owning user's id, so a row belonging to another user
// behaves exactly like a nonexistent one.
type ExpenseRepository interface {
	Create(expense *models.Expense) error
	GetByIDAndOwner(id, ownerID int64) (*models.Expense, error)
	Update(expense *models.Expense) error
	DeleteByIDAndOwner(id, ownerID int64) (int64, error)
	Filter(ownerID int64, filter models.ExpenseFilter) ([]*models.Expense, error)
}

type expenseRepository struct {
	db *sqlx.DB
}

func NewExpenseRepository(db *sqlx.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(expense *models.Expense) error {
	query := `INSERT INTO expenses (owner_id, title, amount, category, date)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowx(query, expense.OwnerID, expense.Title, expense.Amount,
		expense.Category, expense.Date).Scan(&expense.ID)
}

// GetByIDAndOwner fetches an expense by id and owner in a single combined
// predicate. Returns (nil, nil) when no such row exists for this owner.
func (r *expenseRepository) GetByIDAndOwner(id, ownerID int64) (*models.Expense, error) {
	var expense models.Expense
	query := `SELECT id, owner_id, title, amount, category, date FROM expenses
	          WHERE id = $1 AND owner_id = $2`
	err := r.db.Get(&expense, query, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

// Update overwrites the mutable fields of an expense. The WHERE clause
// repeats the owner predicate so the owner reference can never change.
func (r *expenseRepository) Update(expense *models.Expense) error {
	query := `UPDATE expenses SET title = $1, amount = $2, category = $3, date = $4
	          WHERE id = $5 AND owner_id = $6`
	_, err := r.db.Exec(query, expense.Title, expense.Amount, expense.Category,
		expense.Date, expense.ID, expense.OwnerID)
	return err
}

// DeleteByIDAndOwner removes the expense matching both id and owner and
// returns the number of rows removed (zero when absent or not owned).
func (r *expenseRepository) DeleteByIDAndOwner(id, ownerID int64) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM expenses WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Filter lists the owner's expenses, optionally narrowed by category
// (case-insensitive) and an inclusive date range. Filters combine
// conjunctively.
func (r *expenseRepository) Filter(ownerID int64, filter models.ExpenseFilter) ([]*models.Expense, error) {
	query, args := buildFilterQuery(ownerID, filter)

	var expenses []*models.Expense
	if err := r.db.Select(&expenses, query, args...); err != nil {
		return nil, err
	}
	return expenses, nil
}

// buildFilterQuery assembles the four query shapes: owner only, owner and
// category, owner and date range, owner and both.
func buildFilterQuery(ownerID int64, filter models.ExpenseFilter) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, owner_id, title, amount, category, date FROM expenses WHERE owner_id = $1`)
	args := []interface{}{ownerID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		fmt.Fprintf(&sb, " AND LOWER(category) = LOWER($%d)", len(args))
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		args = append(args, *filter.StartDate)
		fmt.Fprintf(&sb, " AND date >= $%d", len(args))
		args = append(args, *filter.EndDate)
		fmt.Fprintf(&sb, " AND date <= $%d", len(args))
	}

	sb.WriteString(" ORDER BY date DESC, id DESC")
	return sb.String(), args
}
