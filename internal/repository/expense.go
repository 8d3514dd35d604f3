package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rafaelmolinari2019/expensaflow-app/internal/models"
)

// StatusAggregate is one row of the per-status aggregation query.
type StatusAggregate struct {
	Status      string
	Count       int64
	TotalAmount float64
}

// ExpenseRepository defines the interface for expense data operations.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	FindByID(ctx context.Context, id int64) (*models.Expense, error)
	// FindAll returns every expense with the owner's name and email
	// attached. Used for admin listings only.
	FindAll(ctx context.Context) ([]models.Expense, error)
	FindByOwner(ctx context.Context, ownerID int64) ([]models.Expense, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Expense, error)
	Delete(ctx context.Context, id int64) error
	// AggregateByStatus groups expenses by status, counting rows and
	// summing amounts per group. A nil ownerID aggregates all expenses.
	AggregateByStatus(ctx context.Context, ownerID *int64) ([]StatusAggregate, error)
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new ExpenseRepository instance.
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if err := r.db.WithContext(ctx).Create(expense).Error; err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

func (r *expenseRepository) FindByID(ctx context.Context, id int64) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.WithContext(ctx).First(&expense, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expense by id %d: %w", id, err)
	}
	return &expense, nil
}

func (r *expenseRepository) FindAll(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	if err := r.attachOwners(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepository) FindByOwner(ctx context.Context, ownerID int64) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("created_at DESC").Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses for user %d: %w", ownerID, err)
	}
	return expenses, nil
}

// attachOwners resolves owner name/email for a batch of expenses with a
// single users query.
func (r *expenseRepository) attachOwners(ctx context.Context, expenses []models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	seen := make(map[int64]bool, len(expenses))
	ids := make([]int64, 0, len(expenses))
	for _, e := range expenses {
		if !seen[e.UserID] {
			seen[e.UserID] = true
			ids = append(ids, e.UserID)
		}
	}

	var owners []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&owners).Error; err != nil {
		return fmt.Errorf("failed to load expense owners: %w", err)
	}

	byID := make(map[int64]models.OwnerSummary, len(owners))
	for _, u := range owners {
		byID[u.ID] = models.OwnerSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	for i := range expenses {
		if owner, ok := byID[expenses[i].UserID]; ok {
			expenses[i].Owner = &owner
		}
	}
	return nil
}

func (r *expenseRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).First(&expense, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find expense by id %d: %w", id, err)
	}

	expense.Status = status
	if err := r.db.WithContext(ctx).Save(&expense).Error; err != nil {
		return nil, fmt.Errorf("failed to update status of expense %d: %w", id, err)
	}
	return &expense, nil
}

func (r *expenseRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Expense{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", id, err)
	}
	return nil
}

func (r *expenseRepository) AggregateByStatus(ctx context.Context, ownerID *int64) ([]StatusAggregate, error) {
	var rows []StatusAggregate
	q := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select("status, COUNT(*) AS count, SUM(amount) AS total_amount").
		Group("status")
	if ownerID != nil {
		q = q.Where("user_id = ?", *ownerID)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses by status: %w", err)
	}
	return rows, nil
}
