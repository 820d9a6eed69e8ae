package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"expensetracker/internal/apperr"
	"expensetracker/internal/middleware"
	"expensetracker/internal/models"
	"expensetracker/internal/service"
)

// dateLayout is the ISO-8601 calendar date format used for the expense
// date field and the startDate/endDate query filters.
const dateLayout = "2006-01-02"

type ExpenseHandler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type expenseHandler struct {
	expenseService service.ExpenseService
	logger         *zap.Logger
}

func NewExpenseHandler(expenseService service.ExpenseService, logger *zap.Logger) ExpenseHandler {
	return &expenseHandler{expenseService: expenseService, logger: logger}
}

// ExpenseRequest is the client-supplied expense payload for create and
// update. There is deliberately no owner field; the owner always comes
// from the authenticated principal.
type ExpenseRequest struct {
	Title    string  `json:"title" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Category string  `json:"category" binding:"required"`
	Date     string  `json:"date" binding:"required"`
}

func (r *ExpenseRequest) toDraft() (*models.Expense, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return nil, apperr.NewBadRequest("date must be an ISO-8601 date (YYYY-MM-DD)")
	}
	return &models.Expense{
		Title:    r.Title,
		Amount:   r.Amount,
		Category: r.Category,
		Date:     date,
	}, nil
}

// Create handles POST /api/expenses
func (h *expenseHandler) Create(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.RespondBindError(c, err)
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	expense, err := h.expenseService.Create(middleware.Principal(c), draft)
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// List handles GET /api/expenses with optional category, startDate and
// endDate query filters.
func (h *expenseHandler) List(c *gin.Context) {
	filter := models.ExpenseFilter{Category: c.Query("category")}

	if v := c.Query("startDate"); v != "" {
		date, err := time.Parse(dateLayout, v)
		if err != nil {
			apperr.Respond(c, h.logger, apperr.NewBadRequest("startDate must be an ISO-8601 date (YYYY-MM-DD)"))
			return
		}
		filter.StartDate = &date
	}
	if v := c.Query("endDate"); v != "" {
		date, err := time.Parse(dateLayout, v)
		if err != nil {
			apperr.Respond(c, h.logger, apperr.NewBadRequest("endDate must be an ISO-8601 date (YYYY-MM-DD)"))
			return
		}
		filter.EndDate = &date
	}

	expenses, err := h.expenseService.Filter(middleware.Principal(c), filter)
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	if expenses == nil {
		expenses = []*models.Expense{}
	}
	c.JSON(http.StatusOK, expenses)
}

// GetByID handles GET /api/expenses/:id
func (h *expenseHandler) GetByID(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	expense, err := h.expenseService.GetByID(middleware.Principal(c), id)
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// Update handles PUT /api/expenses/:id
func (h *expenseHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.RespondBindError(c, err)
		return
	}

	patch, err := req.toDraft()
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	expense, err := h.expenseService.Update(middleware.Principal(c), id, patch)
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// Delete handles DELETE /api/expenses/:id
func (h *expenseHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	if err := h.expenseService.Delete(middleware.Principal(c), id); err != nil {
		apperr.Respond(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperr.NewBadRequest("Invalid expense ID")
	}
	return id, nil
}
