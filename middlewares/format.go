package middlewares

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"Medivue/errs"
)

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError logs an error and writes an HTTP error response to the client.
func HttpError(c *gin.Context, message string, status int, err error) {
	log.Printf("HTTP %d - %s: %v", status, message, err)
	c.JSON(status, gin.H{"error": message})
}

// RespondError maps the ledger/scheduler error kinds onto HTTP statuses.
// The two conflict causes keep their distinct messages so operators know
// which constraint to resolve.
func RespondError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		HttpError(c, err.Error(), http.StatusBadRequest, err)
	case errs.IsNotFound(err):
		HttpError(c, err.Error(), http.StatusNotFound, err)
	case errs.IsConflict(err):
		HttpError(c, err.Error(), http.StatusConflict, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Not a server fault; 408 tells the client its own deadline ended
		// the request.
		HttpError(c, "request cancelled", http.StatusRequestTimeout, err)
	default:
		HttpError(c, "internal error", http.StatusInternalServerError, err)
	}
}
