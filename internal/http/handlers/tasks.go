package handlers

import (
	"net/http"

	"kanban_api/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.Tasks.List(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	t, err := h.Tasks.Get(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var in domain.CreateTaskInput
	if !bindJSON(c, &in) {
		return
	}
	t, err := h.Tasks.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	raw, ok := bindPatch(c)
	if !ok {
		return
	}
	p, err := domain.ParseTaskPatch(raw)
	if err != nil {
		respondError(c, err)
		return
	}
	t, err := h.Tasks.Update(c.Request.Context(), c.Param("id"), userID(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) MoveTask(c *gin.Context) {
	var in domain.MoveTaskInput
	if !bindJSON(c, &in) {
		return
	}
	t, err := h.Tasks.Move(c.Request.Context(), c.Param("id"), userID(c), in.ColumnID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	if err := h.Tasks.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
