package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the API error envelope carried from services up to handlers.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

var (
	ErrNotFound            = New("complaint not found", http.StatusNotFound)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)

	// ErrNoTeamAvailable is returned when dispatch finds no free team
	// whose department matches the complaint category.
	ErrNoTeamAvailable = New("no team available", http.StatusConflict)

	// ErrInvalidTransition is returned on a status change the complaint
	// lifecycle does not permit.
	ErrInvalidTransition = New("invalid status transition", http.StatusConflict)
)

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("error: message: %s", e.Message)
}

// GetUniqueContraintError maps a unique-constraint violation to a friendly
// conflict response, falling back to a plain bad request.
func GetUniqueContraintError(err error) *Error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "email") {
		return New("email already in use", http.StatusConflict)
	}
	if strings.Contains(msg, "duplicate") || strings.Contains(msg, "UNIQUE") {
		return New("record already exists", http.StatusConflict)
	}
	return New(msg, http.StatusBadRequest)
}

// ErrorHandler answers requests rejected by the rate limiter.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"errors": fmt.Sprintf("too many requests, try again in %s", time.Until(info.ResetTime).Round(time.Second)),
		"status": http.StatusText(http.StatusTooManyRequests),
	})
}
