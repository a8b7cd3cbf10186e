package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transport-service/internal/services"
)

// respondSuccess writes the standard success envelope
func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondMessage writes a success envelope carrying only a message
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
	})
}

// respondError maps service errors onto HTTP statuses. Unrecognized errors
// are logged and surface as opaque 500s.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	if validationErr, ok := services.IsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": validationErr.Message,
			"field":   validationErr.Field,
		})
		return
	}
	if authErr, ok := services.IsAuthenticationError(err); ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": authErr.Message,
		})
		return
	}
	if authzErr, ok := services.IsAuthorizationError(err); ok {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": authzErr.Message,
		})
		return
	}
	if notFoundErr, ok := services.IsNotFoundError(err); ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": notFoundErr.Error(),
		})
		return
	}
	if conflictErr, ok := services.IsConflictError(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": conflictErr.Message,
		})
		return
	}

	logger.WithError(err).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "Internal server error",
	})
}

// respondBindError reports a malformed request body
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Invalid request body: " + err.Error(),
	})
}
