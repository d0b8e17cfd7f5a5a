package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the unified envelope: {success, data} on the happy path,
// {success:false, error} otherwise.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, Response{
		Success: false,
		Error:   msg,
	})
}

// ErrorWithData reports a failure while still carrying a payload — used when
// persistence fails after the pipeline already computed a result.
func ErrorWithData(c *gin.Context, httpStatus int, msg string, data interface{}) {
	c.JSON(httpStatus, Response{
		Success: false,
		Error:   msg,
		Data:    data,
	})
}
