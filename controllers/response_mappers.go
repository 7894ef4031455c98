package controllers

import (
	"github.com/DenisSivko/hw05-final/models"
	"github.com/DenisSivko/hw05-final/pagination"
)

// The mappers below shape models into response payloads. Credentials
// never leave through here.

func toUserResponse(user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":          user.ID,
		"username":    user.Username,
		"avatar_path": user.AvatarPath,
	}
}

func toGroupResponse(group *models.Group) map[string]interface{} {
	return map[string]interface{}{
		"id":          group.ID,
		"title":       group.Title,
		"slug":        group.Slug,
		"description": group.Description,
	}
}

func toPostResponse(post *models.Post) map[string]interface{} {
	response := map[string]interface{}{
		"id":         post.ID,
		"text":       post.Text,
		"author":     toUserResponse(&post.Author),
		"group":      nil,
		"image_path": post.ImagePath,
		"created_at": post.CreatedAt,
		"updated_at": post.UpdatedAt,
	}
	if post.Group != nil {
		response["group"] = toGroupResponse(post.Group)
	}
	return response
}

func toCommentResponse(comment *models.Comment) map[string]interface{} {
	return map[string]interface{}{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"author":     toUserResponse(&comment.Author),
		"text":       comment.Text,
		"created_at": comment.CreatedAt,
	}
}

func toFeedResponse(posts *[]models.Post, page pagination.Page) map[string]interface{} {
	items := make([]map[string]interface{}, len(*posts))
	for i := range *posts {
		items[i] = toPostResponse(&(*posts)[i])
	}
	return map[string]interface{}{
		"posts": items,
		"page":  page,
	}
}
