package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/DenisSivko/hw05-final/cache"
	"github.com/DenisSivko/hw05-final/models"
	"github.com/DenisSivko/hw05-final/utils/formaterror"

	"github.com/gin-gonic/gin"
)

// GetGroups lists every group, for the post form's group selector.
func (server *Server) GetGroups(c *gin.Context) {
	group := models.Group{}
	groups, err := group.FindAllGroups(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Error fetching groups"},
		})
		return
	}

	items := make([]map[string]interface{}, len(*groups))
	for i := range *groups {
		items[i] = toGroupResponse(&(*groups)[i])
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": items})
}

// CreateGroup registers a new group. Admin only.
func (server *Server) CreateGroup(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_body": "Unable to get request"},
		})
		return
	}

	group := models.Group{}
	if err := json.Unmarshal(body, &group); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Unmarshal_error": "Cannot unmarshal body"},
		})
		return
	}

	group.Prepare()
	if errorMessages := group.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	created, err := group.SaveGroup(server.DB)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": toGroupResponse(created),
	})
}

// UpdateGroup changes a group's title and description. The slug stays
// fixed: it is the group's public identity.
func (server *Server) UpdateGroup(c *gin.Context) {
	group := models.Group{}
	existing, err := group.FindGroupBySlug(server.DB, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  map[string]string{"Not_found": "Group Not Found"},
		})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_body": "Unable to get request"},
		})
		return
	}

	update := models.Group{}
	if err := json.Unmarshal(body, &update); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Unmarshal_error": "Cannot unmarshal body"},
		})
		return
	}

	update.ID = existing.ID
	update.Slug = existing.Slug
	update.Prepare()
	update.Slug = existing.Slug
	if errorMessages := update.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	updated, err := update.UpdateGroup(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Error updating group"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": toGroupResponse(updated),
	})
}

// DeleteGroup removes a group. Its posts survive with the group
// reference cleared.
func (server *Server) DeleteGroup(c *gin.Context) {
	group := models.Group{}
	existing, err := group.FindGroupBySlug(server.DB, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  map[string]string{"Not_found": "Group Not Found"},
		})
		return
	}

	if _, err := group.DeleteGroup(server.DB, existing.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Error deleting group"},
		})
		return
	}

	// Detached posts render differently, so cached index pages go.
	_ = cache.DeleteByPrefix(context.Background(), "posts:index:")

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Group deleted",
	})
}
