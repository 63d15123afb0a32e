package response

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the shape of every failed response.
type ErrorBody struct {
	Msg   string `json:"msg"`
	Error string `json:"error"`
}

type MessageBody struct {
	Msg string `json:"msg"`
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, MessageBody{Msg: msg})
}

func Error(c *gin.Context, status int, msg string, err error) {
	body := ErrorBody{Msg: msg}
	if err != nil {
		body.Error = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// Attachment sends body as a download named filename.
func Attachment(c *gin.Context, contentType, filename string, body []byte) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Header("Access-Control-Expose-Headers", "Content-Disposition")
	c.Data(http.StatusOK, contentType, body)
}
