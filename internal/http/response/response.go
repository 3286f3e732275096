package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pgscatalog-etl/internal/platform/ctxutil"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	env := ErrorEnvelope{Error: APIError{Message: msg, Code: code}}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		env.Error.RequestID = td.RequestID
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(status, env)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
