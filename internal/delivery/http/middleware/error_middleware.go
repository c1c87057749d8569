package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// GenericServerError is the only 500 body clients see in production.
const GenericServerError = "Server error processing contact request"

func ErrorHandler(isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError && appErr.Err != nil {
				logger.Log.Error("Request failed", "status", appErr.Code, "error", appErr.Err, "path", c.FullPath())
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		// Never expose internal error details in production; log them server-side.
		logger.Log.Error("Internal Server Error", "error", err, "path", c.FullPath())
		reportServerError(c, err)
		response.Error(c, http.StatusInternalServerError, serverErrorMessage(isProduction, err), nil)
	}
}

// Recovery converts panics into the same JSON 500 the error handler produces.
func Recovery(isProduction bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}
		logger.Log.Error("Recovered from panic", "error", err, "path", c.FullPath())
		reportServerError(c, err)
		response.Error(c, http.StatusInternalServerError, serverErrorMessage(isProduction, err), nil)
		c.Abort()
	})
}

func reportServerError(c *gin.Context, err error) {
	reqID := c.GetString(response.RequestIDKey)
	security.DefaultLogger().LogServerError(c.Request.Context(), reqID, c.FullPath(), err)
}

func serverErrorMessage(isProduction bool, err error) string {
	if isProduction || err == nil {
		return GenericServerError
	}
	return err.Error()
}
