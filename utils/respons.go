package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondDomainError maps a service-layer error onto the HTTP status it
// implies. Anything outside the domain taxonomy is an internal error.
func RespondDomainError(c *gin.Context, err error) {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		RespondError(c, http.StatusNotFound, err)
		return
	}

	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		RespondError(c, clientErr.Status, err)
		return
	}

	ErrorLogger.Printf("unexpected error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
}
