package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafaelmolinari2019/expensaflow-app/internal/middleware"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/service"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/storage"
)

// receiptField is the fixed multipart field name for the receipt upload.
const receiptField = "receipt"

// dateLayout is the calendar date format accepted on expense creation.
const dateLayout = "2006-01-02"

// ExpenseHandler handles expense claim HTTP requests.
type ExpenseHandler struct {
	expenseService service.ExpenseService
	receipts       *storage.ReceiptStore
}

// NewExpenseHandler creates a new ExpenseHandler instance.
func NewExpenseHandler(expenseService service.ExpenseService, receipts *storage.ReceiptStore) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		receipts:       receipts,
	}
}

// SetStatusRequest represents the status transition request payload.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List godoc
// @Summary List expenses
// @Description List all expenses for admins (with owner joined in), or the caller's own expenses otherwise
// @Tags expenses
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Expense
// @Failure 401 {object} map[string]string
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "access token required")
		return
	}

	expenses, err := h.expenseService.List(c.Request.Context(), ident)
	if err != nil {
		LogAndRespondError(c, http.StatusInternalServerError, err, "failed to fetch expenses")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// Get godoc
// @Summary Get a single expense
// @Description Fetch one expense by id; only the owner or an admin may read it
// @Tags expenses
// @Security BearerAuth
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} models.Expense
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "access token required")
		return
	}
	id, err := parseID(c)
	if err != nil {
		RespondError(c, http.StatusNotFound, "expense not found")
		return
	}

	expense, err := h.expenseService.GetByID(c.Request.Context(), ident, id)
	if err != nil {
		h.respondExpenseError(c, err, "failed to fetch expense")
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Create godoc
// @Summary Submit an expense claim
// @Description Create an expense claim from a multipart form with an optional receipt file; status always starts pending
// @Tags expenses
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param description formData string true "Description"
// @Param category formData string true "Category"
// @Param amount formData number true "Amount"
// @Param date formData string true "Date (YYYY-MM-DD)"
// @Param receipt formData file false "Receipt (jpeg, jpg, png or pdf)"
// @Success 201 {object} models.Expense
// @Failure 400 {object} map[string]string
// @Failure 415 {object} map[string]string
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "access token required")
		return
	}

	description := c.PostForm("description")
	category := c.PostForm("category")
	amountStr := c.PostForm("amount")
	dateStr := c.PostForm("date")
	if description == "" || category == "" || amountStr == "" || dateStr == "" {
		RespondError(c, http.StatusBadRequest, "all fields are required")
		return
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid amount")
		return
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid date")
		return
	}

	// The receipt is validated and stored before any database write, so
	// a rejected upload leaves no record behind.
	var receiptName string
	if file, err := c.FormFile(receiptField); err == nil {
		receiptName, err = h.receipts.Save(file)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedFile) {
				RespondError(c, http.StatusUnsupportedMediaType, err.Error())
				return
			}
			LogAndRespondError(c, http.StatusInternalServerError, err, "failed to store receipt")
			return
		}
	}

	expense, err := h.expenseService.Create(c.Request.Context(), ident.UserID, service.CreateExpenseInput{
		Description: description,
		Category:    category,
		Amount:      amount,
		Date:        date,
		Receipt:     receiptName,
	})
	if err != nil {
		LogAndRespondError(c, http.StatusInternalServerError, err, "failed to create expense")
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// SetStatus godoc
// @Summary Update expense status
// @Description Transition an expense to pending, approved or rejected; admin only
// @Tags expenses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Param request body SetStatusRequest true "New status"
// @Success 200 {object} models.Expense
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /expenses/{id}/status [put]
func (h *ExpenseHandler) SetStatus(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "access token required")
		return
	}
	id, err := parseID(c)
	if err != nil {
		RespondError(c, http.StatusNotFound, "expense not found")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid status")
		return
	}

	expense, err := h.expenseService.SetStatus(c.Request.Context(), ident, id, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			RespondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		h.respondExpenseError(c, err, "failed to update expense status")
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Delete godoc
// @Summary Delete an expense
// @Description Delete an expense and its stored receipt, if any; owner or admin only
// @Tags expenses
// @Security BearerAuth
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "access token required")
		return
	}
	id, err := parseID(c)
	if err != nil {
		RespondError(c, http.StatusNotFound, "expense not found")
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), ident, id); err != nil {
		h.respondExpenseError(c, err, "failed to delete expense")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense deleted successfully"})
}

// Stats godoc
// @Summary Expense summary statistics
// @Description Per-status counts and approved total, scoped to the caller unless admin
// @Tags stats
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.Stats
// @Failure 401 {object} map[string]string
// @Router /stats [get]
func (h *ExpenseHandler) Stats(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "access token required")
		return
	}

	stats, err := h.expenseService.Stats(c.Request.Context(), ident)
	if err != nil {
		LogAndRespondError(c, http.StatusInternalServerError, err, "failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ExpenseHandler) respondExpenseError(c *gin.Context, err error, logMessage string) {
	switch {
	case errors.Is(err, service.ErrExpenseNotFound):
		RespondError(c, http.StatusNotFound, "expense not found")
	case errors.Is(err, service.ErrForbidden):
		RespondError(c, http.StatusForbidden, "access denied")
	default:
		LogAndRespondError(c, http.StatusInternalServerError, err, logMessage)
	}
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
