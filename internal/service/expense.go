package service

import (
	"fmt"

	"go.uber.org/zap"

	"expensetracker/internal/apperr"
	"expensetracker/internal/models"
	"expensetracker/internal/repository"
)

// ExpenseService implements the ownership-scoped expense operations. Every
// method takes the authenticated principal explicitly; callers must only
// invoke it after the authentication middleware has resolved one.
//
// getById signals NotFound for a missing-or-not-owned record while Update
// and Delete signal Forbidden for the same condition. The asymmetry is
// deliberate and preserved from the original behavior.
type ExpenseService interface {
	Create(principal *models.User, draft *models.Expense) (*models.Expense, error)
	Filter(principal *models.User, filter models.ExpenseFilter) ([]*models.Expense, error)
	GetByID(principal *models.User, id int64) (*models.Expense, error)
	Update(principal *models.User, id int64, patch *models.Expense) (*models.Expense, error)
	Delete(principal *models.User, id int64) error
}

type expenseService struct {
	repo   repository.ExpenseRepository
	logger *zap.Logger
}

func NewExpenseService(repo repository.ExpenseRepository, logger *zap.Logger) ExpenseService {
	return &expenseService{repo: repo, logger: logger}
}

// Create stamps the principal as owner, ignoring any owner value on the
// draft, and persists the record.
func (s *expenseService) Create(principal *models.User, draft *models.Expense) (*models.Expense, error) {
	expense := &models.Expense{
		OwnerID:  principal.ID,
		Title:    draft.Title,
		Amount:   draft.Amount,
		Category: draft.Category,
		Date:     draft.Date,
	}
	if err := s.repo.Create(expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.logger.Info("Expense created",
		zap.Int64("expense_id", expense.ID),
		zap.Int64("user_id", principal.ID))
	return expense, nil
}

// Filter returns the principal's expenses narrowed by the optional
// filters. With no filters set it lists everything the principal owns.
func (s *expenseService) Filter(principal *models.User, filter models.ExpenseFilter) ([]*models.Expense, error) {
	expenses, err := s.repo.Filter(principal.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// GetByID fetches one record by id and owner in a single combined lookup.
// A record owned by someone else is indistinguishable from a nonexistent one.
func (s *expenseService) GetByID(principal *models.User, id int64) (*models.Expense, error) {
	expense, err := s.repo.GetByIDAndOwner(id, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if expense == nil {
		return nil, apperr.ErrNotFound
	}
	return expense, nil
}

// Update overwrites title, amount, category and date of an owned record.
// Owner and id are immutable.
func (s *expenseService) Update(principal *models.User, id int64, patch *models.Expense) (*models.Expense, error) {
	existing, err := s.repo.GetByIDAndOwner(id, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if existing == nil {
		return nil, apperr.ErrForbidden
	}

	existing.Title = patch.Title
	existing.Amount = patch.Amount
	existing.Category = patch.Category
	existing.Date = patch.Date

	if err := s.repo.Update(existing); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	s.logger.Info("Expense updated",
		zap.Int64("expense_id", existing.ID),
		zap.Int64("user_id", principal.ID))
	return existing, nil
}

// Delete removes an owned record. Deleting a record that is absent or
// owned by someone else fails with Forbidden; the delete is a single
// combined id-and-owner statement, so a repeated delete fails the same way.
func (s *expenseService) Delete(principal *models.User, id int64) error {
	deleted, err := s.repo.DeleteByIDAndOwner(id, principal.ID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if deleted == 0 {
		return apperr.ErrForbidden
	}

	s.logger.Info("Expense deleted",
		zap.Int64("expense_id", id),
		zap.Int64("user_id", principal.ID))
	return nil
}
