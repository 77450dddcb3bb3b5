package handlers

import (
	"encoding/json"
	"net/http"

	"kanban_api/internal/domain"
	"kanban_api/internal/perrors"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListBoards(c *gin.Context) {
	boards, err := h.Boards.List(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

func (h *Handler) GetBoard(c *gin.Context) {
	b, err := h.Boards.Get(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) CreateBoard(c *gin.Context) {
	var in domain.CreateBoardInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.Boards.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) UpdateBoard(c *gin.Context) {
	raw, ok := bindPatch(c)
	if !ok {
		return
	}
	p, err := domain.ParseBoardPatch(raw)
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := h.Boards.Update(c.Request.Context(), c.Param("id"), userID(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBoard(c *gin.Context) {
	if err := h.Boards.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ToggleStar(c *gin.Context) {
	b, err := h.Boards.ToggleStar(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) MarkViewed(c *gin.Context) {
	b, err := h.Boards.MarkViewed(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) BoardColumns(c *gin.Context) {
	cols, err := h.Boards.Columns(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cols)
}

func (h *Handler) BoardTasks(c *gin.Context) {
	tasks, err := h.Boards.Tasks(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type reorderRequest struct {
	ColumnOrders json.RawMessage `json:"columnOrders"`
}

func (h *Handler) ReorderColumns(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req) {
		return
	}
	var orders []domain.ColumnOrder
	if len(req.ColumnOrders) == 0 || req.ColumnOrders[0] != '[' {
		respondError(c, perrors.Validation("columnOrders must be an array"))
		return
	}
	if err := json.Unmarshal(req.ColumnOrders, &orders); err != nil {
		respondError(c, perrors.Validation("columnOrders entries need a string id and an integer order"))
		return
	}

	cols, err := h.Boards.ReorderColumns(c.Request.Context(), c.Param("id"), userID(c), orders)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cols)
}
