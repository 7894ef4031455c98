package controllers

import (
	"net/http"
	"strings"

	"github.com/DenisSivko/hw05-final/models"
	httpctx "github.com/DenisSivko/hw05-final/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// AddComment attaches a comment by the principal to the target post.
// Whatever happens to the form, the answer is a redirect back to the
// post view; an invalid submission just skips the write.
func (server *Server) AddComment(c *gin.Context) {
	post, ok := server.lookupPost(c)
	if !ok {
		return
	}
	uid, _ := httpctx.CurrentUserID(c)

	text := c.PostForm("text")
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body struct {
			Text string `json:"text"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			text = body.Text
		}
	}

	comment := models.Comment{
		PostID: post.ID,
		UserID: uid,
		Text:   text,
	}
	comment.Prepare()

	if errorMessages := comment.Validate(); len(errorMessages) == 0 {
		if _, err := comment.SaveComment(server.DB); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": http.StatusInternalServerError,
				"error":  map[string]string{"Server_error": "Error saving comment"},
			})
			return
		}
	}

	c.Redirect(http.StatusFound, postDetailPath(post))
}
