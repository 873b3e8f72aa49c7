package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkle/inkle-api/internal/models"
	"github.com/inkle/inkle-api/internal/services"
	"github.com/inkle/inkle-api/pkg/logger"
)

type ActivityHandler struct {
	activityService *services.ActivityService
	logger          *logger.Logger
}

func NewActivityHandler(activityService *services.ActivityService, logger *logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

func (h *ActivityHandler) Feed(c *gin.Context) {
	activities, err := h.activityService.Feed(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if activities == nil {
		activities = []*models.Activity{}
	}

	c.JSON(http.StatusOK, activities)
}
