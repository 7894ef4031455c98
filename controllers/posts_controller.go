package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DenisSivko/hw05-final/cache"
	"github.com/DenisSivko/hw05-final/models"
	"github.com/DenisSivko/hw05-final/pagination"
	httpctx "github.com/DenisSivko/hw05-final/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const indexCacheTTL = time.Minute

// feedQuery is one of the four candidate sets a feed pages through:
// all posts, one group's posts, one author's posts, or the posts of
// everyone the viewer follows.
type feedQuery func(limit, offset int) (*[]models.Post, int64, error)

// fetchFeedPage runs a feed query for the requested page, clamping
// out-of-range page numbers to the nearest valid page. Clamping needs
// the total, so an out-of-range request costs one extra query.
func fetchFeedPage(page int, query feedQuery) (*[]models.Post, pagination.Page, error) {
	posts, total, err := query(pagination.PageSize, pagination.Offset(page))
	if err != nil {
		return nil, pagination.Page{}, err
	}
	if clamped := pagination.Clamp(page, total); clamped != page {
		page = clamped
		posts, total, err = query(pagination.PageSize, pagination.Offset(page))
		if err != nil {
			return nil, pagination.Page{}, err
		}
	}
	return posts, pagination.Describe(page, total), nil
}

// ListIndex serves the global feed, newest first. Pages are served from
// Redis when possible; the payload carries nothing viewer-specific, so
// one cached copy fits everyone.
func (server *Server) ListIndex(c *gin.Context) {
	page := pagination.FromQuery(c.Query("page"))
	cacheKey := fmt.Sprintf("posts:index:%d", page)

	if cache.Enabled() {
		if cached, err := cache.Get(c.Request.Context(), cacheKey); err == nil && cached != "" {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	post := models.Post{}
	posts, pageInfo, err := fetchFeedPage(page, func(limit, offset int) (*[]models.Post, int64, error) {
		return post.FindAllPosts(server.DB, limit, offset)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Error fetching posts"},
		})
		return
	}

	envelope := gin.H{
		"status":   http.StatusOK,
		"response": toFeedResponse(posts, pageInfo),
	}
	if cache.Enabled() {
		if payload, err := json.Marshal(envelope); err == nil {
			_ = cache.Set(c.Request.Context(), cacheKey, payload, indexCacheTTL)
		}
	}
	c.JSON(http.StatusOK, envelope)
}

// GroupPosts serves one group's feed, looked up by slug.
func (server *Server) GroupPosts(c *gin.Context) {
	group := models.Group{}
	found, err := group.FindGroupBySlug(server.DB, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  map[string]string{"Not_found": "Group Not Found"},
		})
		return
	}

	page := pagination.FromQuery(c.Query("page"))
	post := models.Post{}
	posts, pageInfo, err := fetchFeedPage(page, func(limit, offset int) (*[]models.Post, int64, error) {
		return post.FindGroupPosts(server.DB, found.ID, limit, offset)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Error fetching posts"},
		})
		return
	}

	response := toFeedResponse(posts, pageInfo)
	response["group"] = toGroupResponse(found)
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": response})
}

// Profile serves an author's feed plus whether the viewer follows them.
func (server *Server) Profile(c *gin.Context) {
	user := models.User{}
	author, err := user.FindUserByUsername(server.DB, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  map[string]string{"Not_found": "User Not Found"},
		})
		return
	}

	page := pagination.FromQuery(c.Query("page"))
	post := models.Post{}
	posts, pageInfo, err := fetchFeedPage(page, func(limit, offset int) (*[]models.Post, int64, error) {
		return post.FindAuthorPosts(server.DB, author.ID, limit, offset)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Error fetching posts"},
		})
		return
	}

	response := toFeedResponse(posts, pageInfo)
	response["author"] = toUserResponse(author)
	response["following"] = server.viewerFollows(c, author.ID)
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": response})
}

// PostView serves one post by its compound (username, post id) key,
// with its comments. The id alone is not enough: the author in the URL
// must own the post, otherwise the lookup misses.
func (server *Server) PostView(c *gin.Context) {
	post, ok := server.lookupPost(c)
	if !ok {
		return
	}

	comment := models.Comment{}
	comments, err := comment.GetPostComments(server.DB, post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Error fetching comments"},
		})
		return
	}

	commentItems := make([]map[string]interface{}, len(*comments))
	for i := range *comments {
		commentItems[i] = toCommentResponse(&(*comments)[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"post":      toPostResponse(post),
			"comments":  commentItems,
			"following": server.viewerFollows(c, post.AuthorID),
		},
	})
}

// NewPostForm presents the blank post form. No mutation.
func (server *Server) NewPostForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": server.postFormPayload("", nil, true),
	})
}

// CreatePost creates a post owned by the principal and redirects to the
// index. An invalid submission re-presents the form with field errors
// and leaves the store untouched.
func (server *Server) CreatePost(c *gin.Context) {
	uid, _ := httpctx.CurrentUserID(c)

	text, groupID, errList := server.parsePostForm(c)
	imagePath, imageErrs := savePostImage(c)
	for k, v := range imageErrs {
		errList[k] = v
	}

	post := models.Post{
		Text:      text,
		GroupID:   groupID,
		ImagePath: imagePath,
		AuthorID:  uid,
	}
	post.Prepare()
	for k, v := range post.Validate() {
		errList[k] = v
	}
	if len(errList) > 0 {
		server.renderPostForm(c, text, groupID, true, errList)
		return
	}

	if _, err := post.SavePost(server.DB); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errList["Invalid_group"] = "Group Not Found"
			server.renderPostForm(c, text, groupID, true, errList)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Error creating post"},
		})
		return
	}

	_ = cache.DeleteByPrefix(context.Background(), "posts:index:")
	c.Redirect(http.StatusFound, "/")
}

// EditPostForm presents the edit form pre-filled with the post. A
// principal who is not the author is bounced to the post view instead;
// no error is surfaced.
func (server *Server) EditPostForm(c *gin.Context) {
	post, ok := server.lookupPost(c)
	if !ok {
		return
	}
	uid, authenticated := httpctx.CurrentUserID(c)
	if !CanEditPost(uid, authenticated, post) {
		c.Redirect(http.StatusFound, postDetailPath(post))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": server.postFormPayload(post.Text, post.GroupID, false),
	})
}

// EditPost mutates an existing post. Same silent-denial rule as the
// form: non-authors are redirected to the post view with no mutation.
func (server *Server) EditPost(c *gin.Context) {
	post, ok := server.lookupPost(c)
	if !ok {
		return
	}
	uid, authenticated := httpctx.CurrentUserID(c)
	if !CanEditPost(uid, authenticated, post) {
		c.Redirect(http.StatusFound, postDetailPath(post))
		return
	}

	text, groupID, errList := server.parsePostForm(c)
	imagePath, imageErrs := savePostImage(c)
	for k, v := range imageErrs {
		errList[k] = v
	}
	if imagePath == "" {
		imagePath = post.ImagePath
	}

	updated := models.Post{
		ID:        post.ID,
		Text:      text,
		GroupID:   groupID,
		ImagePath: imagePath,
		AuthorID:  post.AuthorID,
	}
	updated.Prepare()
	for k, v := range updated.Validate() {
		errList[k] = v
	}
	if len(errList) > 0 {
		server.renderPostForm(c, text, groupID, false, errList)
		return
	}

	if _, err := updated.UpdatePost(server.DB); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errList["Invalid_group"] = "Group Not Found"
			server.renderPostForm(c, text, groupID, false, errList)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Error updating post"},
		})
		return
	}

	_ = cache.DeleteByPrefix(context.Background(), "posts:index:")
	c.Redirect(http.StatusFound, postDetailPath(post))
}

// FollowIndex serves the posts of every author the principal follows.
func (server *Server) FollowIndex(c *gin.Context) {
	uid, _ := httpctx.CurrentUserID(c)

	page := pagination.FromQuery(c.Query("page"))
	post := models.Post{}
	posts, pageInfo, err := fetchFeedPage(page, func(limit, offset int) (*[]models.Post, int64, error) {
		return post.FindFeedPosts(server.DB, uid, limit, offset)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Error fetching feed"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": toFeedResponse(posts, pageInfo),
	})
}

// lookupPost resolves the compound URL key and writes the 404 itself on
// a miss, so handlers read like their happy path.
func (server *Server) lookupPost(c *gin.Context) (*models.Post, bool) {
	pid, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  map[string]string{"Not_found": "Post Not Found"},
		})
		return nil, false
	}

	post := models.Post{}
	found, err := post.FindPostByAuthorAndID(server.DB, c.Param("username"), uint(pid))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  map[string]string{"Not_found": "Post Not Found"},
		})
		return nil, false
	}
	return found, true
}

func (server *Server) viewerFollows(c *gin.Context, authorID uint) bool {
	uid, authenticated := httpctx.CurrentUserID(c)
	if !authenticated || uid == authorID {
		return false
	}
	follow := models.Follow{}
	following, err := follow.IsFollowing(server.DB, uid, authorID)
	if err != nil {
		return false
	}
	return following
}

// parsePostForm reads a submission from JSON or a (multipart) form.
// The group is optional; an empty value means "no group".
func (server *Server) parsePostForm(c *gin.Context) (string, *uint, map[string]string) {
	errList := map[string]string{}

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body struct {
			Text    string `json:"text"`
			GroupID *uint  `json:"group_id"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			errList["Unmarshal_error"] = "Cannot unmarshal body"
			return "", nil, errList
		}
		return body.Text, body.GroupID, errList
	}

	text := c.PostForm("text")
	raw := strings.TrimSpace(c.PostForm("group_id"))
	if raw == "" {
		return text, nil, errList
	}
	gid, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		errList["Invalid_group"] = "Invalid Group"
		return text, nil, errList
	}
	groupID := uint(gid)
	return text, &groupID, errList
}

// renderPostForm re-presents the form with validation errors. The
// response is a 200: a failed submission is a form round-trip, not an
// API error.
func (server *Server) renderPostForm(c *gin.Context, text string, groupID *uint, isNew bool, errList map[string]string) {
	payload := server.postFormPayload(text, groupID, isNew)
	payload["errors"] = errList
	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": payload,
	})
}

func (server *Server) postFormPayload(text string, groupID *uint, isNew bool) map[string]interface{} {
	group := models.Group{}
	groups, err := group.FindAllGroups(server.DB)
	groupItems := []map[string]interface{}{}
	if err == nil {
		groupItems = make([]map[string]interface{}, len(*groups))
		for i := range *groups {
			groupItems[i] = toGroupResponse(&(*groups)[i])
		}
	}
	return map[string]interface{}{
		"form": map[string]interface{}{
			"text":     text,
			"group_id": groupID,
		},
		"groups": groupItems,
		"is_new": isNew,
	}
}

func postDetailPath(post *models.Post) string {
	return fmt.Sprintf("/%s/%d", post.Author.Username, post.ID)
}
