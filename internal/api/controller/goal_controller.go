package controller

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/api/response"
	"github.com/Aariyan007/personal-expense-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

type GoalController struct {
	service *service.GoalService
}

func NewGoalController(s *service.GoalService) *GoalController {
	return &GoalController{service: s}
}

type GoalRequest struct {
	Name         string  `json:"name" binding:"required"`
	TargetAmount float64 `json:"target_amount" binding:"required,gt=0"`
	SavedAmount  float64 `json:"saved_amount" binding:"min=0"`
	Deadline     string  `json:"deadline"` // 2006-01-02, optional
}

// UpdateGoalRequest: omitted fields stay untouched. SavedAmount is a pointer
// so "not sent" and "set to 0" are distinguishable.
type UpdateGoalRequest struct {
	Name         string   `json:"name"`
	TargetAmount float64  `json:"target_amount"`
	SavedAmount  *float64 `json:"saved_amount"`
	Deadline     string   `json:"deadline"`
}

// Create registers a savings goal.
// @Summary  Create goal
// @Tags     Goal
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    request body GoalRequest true "goal"
// @Success  200 {object} response.Response
// @Router   /goals [post]
func (ctrl *GoalController) Create(c *gin.Context) {
	userID := c.GetString("userID")

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	in := service.GoalInput{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		SavedAmount:  &req.SavedAmount,
	}
	if req.Deadline != "" {
		t, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid deadline, expected YYYY-MM-DD")
			return
		}
		in.Deadline = &t
	}

	goal, err := ctrl.service.Create(c.Request.Context(), userID, in)
	if err != nil {
		slog.Error("create goal failed", "error", err)
		response.Error(c, http.StatusInternalServerError, "could not save goal")
		return
	}
	response.Success(c, goal)
}

// List returns the caller's goals.
// @Summary  List goals
// @Tags     Goal
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} response.Response
// @Router   /goals [get]
func (ctrl *GoalController) List(c *gin.Context) {
	userID := c.GetString("userID")

	goals, err := ctrl.service.List(c.Request.Context(), userID)
	if err != nil {
		slog.Error("list goals failed", "error", err)
		response.Error(c, http.StatusInternalServerError, "could not list goals")
		return
	}
	response.Success(c, goals)
}

// Update modifies an owned goal.
// @Summary  Update goal
// @Tags     Goal
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Success  200 {object} response.Response
// @Router   /goals/{id} [put]
func (ctrl *GoalController) Update(c *gin.Context) {
	userID := c.GetString("userID")

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	in := service.GoalInput{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		SavedAmount:  req.SavedAmount,
	}
	if req.Deadline != "" {
		t, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid deadline, expected YYYY-MM-DD")
			return
		}
		in.Deadline = &t
	}

	goal, err := ctrl.service.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		respondServiceError(c, err, "could not update goal")
		return
	}
	response.Success(c, goal)
}

// Delete removes an owned goal.
// @Summary  Delete goal
// @Tags     Goal
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} response.Response
// @Router   /goals/{id} [delete]
func (ctrl *GoalController) Delete(c *gin.Context) {
	userID := c.GetString("userID")

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err, "could not delete goal")
		return
	}
	response.Success(c, nil)
}
