package controllers

import "github.com/DenisSivko/hw05-final/models"

// The gate below is the whole authorization story: anonymous users read
// everything and write nothing; authors edit only their own posts; a
// user never follows themselves. Handlers translate a denial into a
// silent redirect, never a 403.

func CanEditPost(principal uint, authenticated bool, post *models.Post) bool {
	return authenticated && principal == post.AuthorID
}

func CanFollow(principal uint, authenticated bool, author uint) bool {
	return authenticated && principal != author
}
