package handlers

import (
	"net/http"

	"kanban_api/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Register(c *gin.Context) {
	var in domain.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Login(c *gin.Context) {
	var in domain.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Profile(c *gin.Context) {
	u, err := h.Auth.Profile(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	raw, ok := bindPatch(c)
	if !ok {
		return
	}
	p, err := domain.ParseProfilePatch(raw)
	if err != nil {
		respondError(c, err)
		return
	}
	u, err := h.Auth.UpdateProfile(c.Request.Context(), userID(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var in domain.ChangePasswordInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.Auth.ChangePassword(c.Request.Context(), userID(c), in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
