package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkle/inkle-api/internal/models"
	"github.com/inkle/inkle-api/internal/services"
	"github.com/inkle/inkle-api/pkg/logger"
)

type (
	graphFunc func(ctx context.Context, current services.Principal, targetID uuid.UUID) error
	roleFunc  func(ctx context.Context, acting services.Principal, userID uuid.UUID) (*models.User, error)
)

type UserHandler struct {
	accountService *services.AccountService
	graphService   *services.GraphService
	logger         *logger.Logger
}

func NewUserHandler(accountService *services.AccountService, graphService *services.GraphService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		accountService: accountService,
		graphService:   graphService,
		logger:         logger,
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	current, ok := principal(c)
	if !ok {
		return
	}

	user, err := h.accountService.Me(c.Request.Context(), current)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.accountService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Follow(c *gin.Context) {
	h.graphAction(c, h.graphService.Follow, http.StatusCreated, "Followed successfully")
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	h.graphAction(c, h.graphService.Unfollow, http.StatusOK, "Unfollowed successfully")
}

func (h *UserHandler) Block(c *gin.Context) {
	h.graphAction(c, h.graphService.Block, http.StatusCreated, "User blocked")
}

func (h *UserHandler) Unblock(c *gin.Context) {
	h.graphAction(c, h.graphService.Unblock, http.StatusOK, "User unblocked")
}

func (h *UserHandler) graphAction(c *gin.Context, action graphFunc, status int, message string) {
	current, ok := principal(c)
	if !ok {
		return
	}
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := action(c.Request.Context(), current, targetID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(status, gin.H{"message": message})
}

func (h *UserHandler) Delete(c *gin.Context) {
	acting, ok := principal(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.DeleteUser(c.Request.Context(), acting, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *UserHandler) MakeAdmin(c *gin.Context) {
	h.roleAction(c, h.accountService.Promote, "User promoted to admin")
}

func (h *UserHandler) RemoveAdmin(c *gin.Context) {
	h.roleAction(c, h.accountService.Demote, "Admin role removed")
}

func (h *UserHandler) roleAction(c *gin.Context, action roleFunc, message string) {
	acting, ok := principal(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := action(c.Request.Context(), acting, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"user":    user,
	})
}
