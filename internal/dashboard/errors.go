package dashboard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/strand/internal/design"
	"github.com/zulandar/strand/internal/layout"
	"github.com/zulandar/strand/internal/position"
)

// statusFor maps a domain error to an HTTP status code.
func statusFor(err error) int {
	var verr *position.ValidationError
	var rerr *position.ResolveError
	switch {
	case errors.Is(err, position.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, position.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.As(err, &verr),
		errors.Is(err, layout.ErrNoSelection),
		errors.Is(err, layout.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, design.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &rerr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func abortWith(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
