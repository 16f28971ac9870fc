package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newID() string {
	return uuid.NewString()
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func respondErrorDetail(c *gin.Context, status int, message string, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}

// respondDBError maps common database failures onto the error taxonomy:
// missing rows to 404, duplicate keys to 409, everything else to 500.
func respondDBError(c *gin.Context, err error, notFoundMessage, internalMessage string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, notFoundMessage)
	case isDuplicateKey(err):
		respondErrorDetail(c, http.StatusConflict, "Duplicate value for a unique field", err)
	default:
		respondErrorDetail(c, http.StatusInternalServerError, internalMessage, err)
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// MySQL error 1062
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
