package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkle/inkle-api/internal/middleware"
	"github.com/inkle/inkle-api/internal/services"
	"github.com/inkle/inkle-api/pkg/logger"
)

var statusByKind = map[services.Kind]int{
	services.KindUnauthenticated: http.StatusUnauthorized,
	services.KindForbidden:       http.StatusForbidden,
	services.KindNotFound:        http.StatusNotFound,
	services.KindInvalidArgument: http.StatusBadRequest,
	services.KindConflict:        http.StatusConflict,
}

// respondError writes the status for a service error. Internal errors are
// logged and answered with a generic message.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	if status, ok := statusByKind[services.KindOf(err)]; ok {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	_ = c.Error(err)
	log.WithError(err).WithField("rid", c.GetString(middleware.KeyRequestID)).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func principal(c *gin.Context) (services.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	}
	return p, ok
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
