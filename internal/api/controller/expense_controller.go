package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/api/response"
	"github.com/Aariyan007/personal-expense-tracker/internal/model"
	"github.com/Aariyan007/personal-expense-tracker/internal/repository"
	"github.com/Aariyan007/personal-expense-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

type ExpenseController struct {
	service *service.ExpenseService
}

func NewExpenseController(s *service.ExpenseService) *ExpenseController {
	return &ExpenseController{service: s}
}

type CreateExpenseRequest struct {
	Amount      float64 `json:"amount" binding:"required,min=0"`
	Category    string  `json:"category" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Date        string  `json:"date"` // 2006-01-02, defaults to now
	Kind        string  `json:"kind"` // expense|income
}

// UpdateExpenseRequest: omitted fields stay untouched. Amount is a pointer
// so "not sent" and "set to 0" are distinguishable.
type UpdateExpenseRequest struct {
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
}

type ListExpensesRequest struct {
	Page      int    `form:"page,default=1"`
	PageSize  int    `form:"page_size,default=10"`
	Category  string `form:"category"`
	Kind      string `form:"kind"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type ListExpensesResponse struct {
	List  []model.Expense `json:"list"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
}

type ProcessRequest struct {
	Paragraph string `json:"paragraph" binding:"required"`
}

// Create records one manual expense.
// @Summary  Create expense
// @Tags     Expense
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    request body CreateExpenseRequest true "expense"
// @Success  200 {object} response.Response
// @Router   /expenses [post]
func (ctrl *ExpenseController) Create(c *gin.Context) {
	userID := c.GetString("userID")

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	in := service.ExpenseInput{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Kind:        model.ExpenseKind(req.Kind),
	}
	if req.Date != "" {
		t, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		in.Date = &t
	}

	expense, err := ctrl.service.CreateExpense(c.Request.Context(), userID, in)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("create expense failed", "error", err)
		response.Error(c, http.StatusInternalServerError, "could not save expense")
		return
	}
	response.Success(c, expense)
}

// List returns the caller's expenses, filtered and paged.
// @Summary  List expenses
// @Tags     Expense
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} response.Response{data=ListExpensesResponse}
// @Router   /expenses [get]
func (ctrl *ExpenseController) List(c *gin.Context) {
	userID := c.GetString("userID")

	var req ListExpensesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	filter := repository.ExpenseFilter{
		UserID:   userID,
		Category: model.Category(req.Category),
		Kind:     model.ExpenseKind(req.Kind),
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.StartDate != "" {
		if t, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			filter.StartDate = t
		}
	}
	if req.EndDate != "" {
		if t, err := time.Parse("2006-01-02", req.EndDate); err == nil {
			filter.EndDate = t.Add(24 * time.Hour) // include the end day
		}
	}

	list, total, err := ctrl.service.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		slog.Error("list expenses failed", "error", err)
		response.Error(c, http.StatusInternalServerError, "could not list expenses")
		return
	}
	response.Success(c, ListExpensesResponse{List: list, Total: total, Page: req.Page})
}

// Update modifies an owned expense.
// @Summary  Update expense
// @Tags     Expense
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Success  200 {object} response.Response
// @Router   /expenses/{id} [put]
func (ctrl *ExpenseController) Update(c *gin.Context) {
	userID := c.GetString("userID")

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	in := service.ExpenseUpdate{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Date != "" {
		t, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		in.Date = &t
	}

	expense, err := ctrl.service.UpdateExpense(c.Request.Context(), userID, id, in)
	if err != nil {
		respondServiceError(c, err, "could not update expense")
		return
	}
	response.Success(c, expense)
}

// Delete removes an owned expense.
// @Summary  Delete expense
// @Tags     Expense
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} response.Response
// @Router   /expenses/{id} [delete]
func (ctrl *ExpenseController) Delete(c *gin.Context) {
	userID := c.GetString("userID")

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteExpense(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err, "could not delete expense")
		return
	}
	response.Success(c, nil)
}

// Process runs the full paragraph pipeline: extraction, retrieval context,
// analysis, persistence. Model failures never surface as errors — the
// response carries a fallback result instead. Only persistence failures
// return 500, and even then the computed data rides along.
// @Summary  Process a spending paragraph
// @Tags     Expense
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    request body ProcessRequest true "free-text paragraph"
// @Success  200 {object} response.Response{data=service.ProcessResult}
// @Router   /expenses/process [post]
func (ctrl *ExpenseController) Process(c *gin.Context) {
	userID := c.GetString("userID")

	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	result, err := ctrl.service.ProcessParagraph(c.Request.Context(), userID, req.Paragraph)
	if err != nil {
		slog.Error("pipeline persistence failed", "error", err)
		response.ErrorWithData(c, http.StatusInternalServerError, "extraction succeeded but saving failed", result)
		return
	}
	response.Success(c, result)
}

// Reprocess re-runs extraction for one AI-augmented record from its stored
// original text, revising confidence and processing status.
// @Summary  Reprocess an AI record
// @Tags     Expense
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} response.Response
// @Router   /expenses/ai/{id}/reprocess [post]
func (ctrl *ExpenseController) Reprocess(c *gin.Context) {
	userID := c.GetString("userID")

	id, ok := pathID(c)
	if !ok {
		return
	}

	row, err := ctrl.service.ReprocessAIExpense(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNoProvenance) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		respondServiceError(c, err, "could not reprocess record")
		return
	}
	response.Success(c, row)
}

// Patterns returns the spending and merchant summaries.
// @Summary  Spending patterns
// @Tags     Expense
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} response.Response{data=service.PatternsReport}
// @Router   /expenses/patterns [get]
func (ctrl *ExpenseController) Patterns(c *gin.Context) {
	userID := c.GetString("userID")

	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))
	report, err := ctrl.service.Patterns(c.Request.Context(), userID, months)
	if err != nil {
		slog.Error("patterns failed", "error", err)
		response.Error(c, http.StatusInternalServerError, "could not compute patterns")
		return
	}
	response.Success(c, report)
}

// pathID parses the :id segment, answering 400 itself on garbage.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps service sentinels onto status codes.
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidAmount):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		slog.Error(fallbackMsg, "error", err)
		response.Error(c, http.StatusInternalServerError, fallbackMsg)
	}
}
