package handlers

import (
	"net/http"

	"kanban_api/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetColumn(c *gin.Context) {
	col, err := h.Columns.Get(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

func (h *Handler) ColumnTasks(c *gin.Context) {
	tasks, err := h.Columns.Tasks(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) CreateColumn(c *gin.Context) {
	var in domain.CreateColumnInput
	if !bindJSON(c, &in) {
		return
	}
	col, err := h.Columns.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, col)
}

func (h *Handler) UpdateColumn(c *gin.Context) {
	raw, ok := bindPatch(c)
	if !ok {
		return
	}
	p, err := domain.ParseColumnPatch(raw)
	if err != nil {
		respondError(c, err)
		return
	}
	col, err := h.Columns.Update(c.Request.Context(), c.Param("id"), userID(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

func (h *Handler) DeleteColumn(c *gin.Context) {
	if err := h.Columns.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
