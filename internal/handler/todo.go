package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daybook/backend/internal/model"
	"github.com/daybook/backend/internal/service"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Create godoc
// @Summary Create a todo
// @Tags todos
// @Accept json
// @Produce json
// @Param request body model.CreateTodoRequest true "Todo fields"
// @Success 201 {object} model.Todo
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req model.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "invalid request"})
		return
	}

	todo, err := h.svc.Create(c.Request.Context(), GetAuthUser(c).ID, req)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// List godoc
// @Summary List the user's todos
// @Description Optional priority filter via ?priority=low|medium|high.
// @Tags todos
// @Produce json
// @Success 200 {array} model.Todo
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	userID := GetAuthUser(c).ID

	var todos []model.Todo
	var err error
	if priority := c.Query("priority"); priority != "" {
		todos, err = h.svc.ListByPriority(c.Request.Context(), userID, priority)
	} else {
		todos, err = h.svc.List(c.Request.Context(), userID)
	}
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// Get godoc
// @Summary Get one todo
// @Tags todos
// @Produce json
// @Param id path string true "Todo ID"
// @Success 200 {object} model.Todo
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/todos/{id} [get]
func (h *TodoHandler) Get(c *gin.Context) {
	todo, err := h.svc.Get(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// Update godoc
// @Summary Update a todo
// @Tags todos
// @Accept json
// @Produce json
// @Param id path string true "Todo ID"
// @Param request body model.UpdateTodoRequest true "Fields to change"
// @Success 200 {object} model.Todo
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	var req model.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "invalid request"})
		return
	}

	todo, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID, req)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// ToggleStatus godoc
// @Summary Set a todo's status
// @Tags todos
// @Accept json
// @Produce json
// @Param id path string true "Todo ID"
// @Success 200 {object} model.Todo
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/todos/{id}/status [patch]
func (h *TodoHandler) ToggleStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "invalid request"})
		return
	}

	todo, err := h.svc.ToggleStatus(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID, req.Status)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// Delete godoc
// @Summary Delete a todo
// @Tags todos
// @Produce json
// @Param id path string true "Todo ID"
// @Success 200 {object} model.MessageResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "todo deleted"})
}
