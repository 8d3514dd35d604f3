package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rafaelmolinari2019/expensaflow-app/internal/models"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/repository"
)

var (
	// ErrExpenseNotFound is returned when no expense matches the id.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrForbidden is returned when the caller is neither the owner of
	// the expense nor an administrator.
	ErrForbidden = errors.New("access denied")
	// ErrInvalidStatus is returned for a status outside the enum.
	ErrInvalidStatus = errors.New("invalid status")
)

// statsCacheTTL matches the dashboard polling interval, so at most one
// aggregation query runs per poll cycle per scope.
const statsCacheTTL = 15 * time.Second

// CreateExpenseInput carries the fields of a new expense claim. Any
// client-supplied status is ignored; claims always start pending.
type CreateExpenseInput struct {
	Description string
	Category    string
	Amount      float64
	Date        time.Time
	Receipt     string
}

// Stats is the per-status summary returned from the stats endpoint. The
// key names and the string-typed total are an external contract consumed
// verbatim by the browser client.
type Stats struct {
	Pending     int64  `json:"Pendente"`
	Approved    int64  `json:"Aprovado"`
	Rejected    int64  `json:"Rejeitado"`
	TotalAmount string `json:"totalAmount"`
}

// ReceiptRemover deletes a stored receipt file by name.
type ReceiptRemover interface {
	Remove(filename string) error
}

// ExpenseService implements expense claim CRUD, the admin status
// transition and the per-status summary, enforcing ownership and role
// rules on every operation.
type ExpenseService interface {
	Create(ctx context.Context, ownerID int64, in CreateExpenseInput) (*models.Expense, error)
	List(ctx context.Context, ident models.Identity) ([]models.Expense, error)
	GetByID(ctx context.Context, ident models.Identity, id int64) (*models.Expense, error)
	SetStatus(ctx context.Context, ident models.Identity, id int64, status string) (*models.Expense, error)
	Delete(ctx context.Context, ident models.Identity, id int64) error
	Stats(ctx context.Context, ident models.Identity) (*Stats, error)
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
	receipts    ReceiptRemover
	cache       *redis.Client
}

// NewExpenseService creates a new ExpenseService instance. cache may be
// nil, in which case every stats call hits the database.
func NewExpenseService(expenseRepo repository.ExpenseRepository, receipts ReceiptRemover, cache *redis.Client) ExpenseService {
	return &expenseService{
		expenseRepo: expenseRepo,
		receipts:    receipts,
		cache:       cache,
	}
}

func (s *expenseService) Create(ctx context.Context, ownerID int64, in CreateExpenseInput) (*models.Expense, error) {
	expense := &models.Expense{
		UserID:      ownerID,
		Description: in.Description,
		Category:    in.Category,
		Amount:      in.Amount,
		Date:        in.Date,
		Receipt:     in.Receipt,
		Status:      models.StatusPending,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return expense, nil
}

func (s *expenseService) List(ctx context.Context, ident models.Identity) ([]models.Expense, error) {
	if ident.IsAdmin() {
		return s.expenseRepo.FindAll(ctx)
	}
	return s.expenseRepo.FindByOwner(ctx, ident.UserID)
}

func (s *expenseService) GetByID(ctx context.Context, ident models.Identity, id int64) (*models.Expense, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	if !ident.IsAdmin() && expense.UserID != ident.UserID {
		return nil, ErrForbidden
	}
	return expense, nil
}

func (s *expenseService) SetStatus(ctx context.Context, ident models.Identity, id int64, status string) (*models.Expense, error) {
	if !models.Allowed(ident.Role, models.OpExpenseSetStatus) {
		return nil, ErrForbidden
	}
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	// Any status may transition to any other, including a no-op; the
	// workflow is deliberately unguarded.
	expense, err := s.expenseRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}

	s.invalidateStats(ctx, expense.UserID)
	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, ident models.Identity, id int64) error {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExpenseNotFound
		}
		return err
	}
	if !ident.IsAdmin() && expense.UserID != ident.UserID {
		return ErrForbidden
	}

	// Receipt removal comes first and is best-effort: a receipt already
	// gone from disk is not an error, and a failed removal does not stop
	// the record delete.
	if expense.Receipt != "" && s.receipts != nil {
		if err := s.receipts.Remove(expense.Receipt); err != nil {
			slog.Warn("Failed to remove receipt file", "expense_id", id, "receipt", expense.Receipt, "error", err)
		}
	}

	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateStats(ctx, expense.UserID)
	return nil
}

func (s *expenseService) Stats(ctx context.Context, ident models.Identity) (*Stats, error) {
	key := s.statsCacheKey(ident)
	if cached := s.cachedStats(ctx, key); cached != nil {
		return cached, nil
	}

	var ownerID *int64
	if !ident.IsAdmin() {
		ownerID = &ident.UserID
	}

	rows, err := s.expenseRepo.AggregateByStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalAmount: "0.00"}
	for _, row := range rows {
		switch row.Status {
		case models.StatusPending:
			stats.Pending = row.Count
		case models.StatusApproved:
			stats.Approved = row.Count
			stats.TotalAmount = strconv.FormatFloat(row.TotalAmount, 'f', 2, 64)
		case models.StatusRejected:
			stats.Rejected = row.Count
		}
	}

	s.storeStats(ctx, key, stats)
	return stats, nil
}

func (s *expenseService) statsCacheKey(ident models.Identity) string {
	if ident.IsAdmin() {
		return "stats:all"
	}
	return fmt.Sprintf("stats:user:%d", ident.UserID)
}

// cachedStats returns the cached summary for key, or nil on miss or any
// cache failure. A dead cache only costs the aggregation query.
func (s *expenseService) cachedStats(ctx context.Context, key string) *Stats {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Debug("Stats cache read failed", "key", key, "error", err)
		}
		return nil
	}
	var stats Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *expenseService) storeStats(ctx context.Context, key string, stats *Stats) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, statsCacheTTL).Err(); err != nil {
		slog.Debug("Stats cache write failed", "key", key, "error", err)
	}
}

// invalidateStats drops the cached summaries affected by a mutation: the
// owner's scope and the admin-wide scope.
func (s *expenseService) invalidateStats(ctx context.Context, ownerID int64) {
	if s.cache == nil {
		return
	}
	keys := []string{"stats:all", fmt.Sprintf("stats:user:%d", ownerID)}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		slog.Debug("Stats cache invalidation failed", "owner_id", ownerID, "error", err)
	}
}
