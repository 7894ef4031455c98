package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DenisSivko/hw05-final/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Creating a post and fetching it back through the compound
// (username, id) key must return the same text, author and group.
func TestCreateAndViewPost(t *testing.T) {
	server, r := newTestServer(t)
	_, token := signupAndLogin(t, r, "alice", "alice@example.com")

	group := models.Group{Title: "Cats", Slug: "cats", Description: "cat posts"}
	require.NoError(t, server.DB.Create(&group).Error)

	post := createPost(t, server, r, token, "hello from alice", &group.ID)
	assert.Equal(t, "hello from alice", post.Text)
	assert.Equal(t, "alice", post.Author.Username)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, group.ID, *post.GroupID)

	w := authedGet(r, "", detailPath(post))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	response := body["response"].(map[string]interface{})
	fetched := response["post"].(map[string]interface{})
	assert.Equal(t, "hello from alice", fetched["text"])
	assert.Equal(t, "alice", fetched["author"].(map[string]interface{})["username"])
	assert.Equal(t, "cats", fetched["group"].(map[string]interface{})["slug"])
	assert.Equal(t, false, response["following"])
}

// The id alone is not enough: the username in the URL must match the
// post's actual author.
func TestViewPostWrongAuthorIs404(t *testing.T) {
	server, r := newTestServer(t)
	_, aliceToken := signupAndLogin(t, r, "alice", "alice@example.com")
	signupAndLogin(t, r, "bob", "bob@example.com")

	post := createPost(t, server, r, aliceToken, "alice's post", nil)

	w := authedGet(r, "", fmt.Sprintf("/bob/%d", post.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePostRequiresLogin(t *testing.T) {
	_, r := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"text": "anonymous post"})
	req, _ := http.NewRequest(http.MethodPost, "/new", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fnew", w.Header().Get("Location"))
}

// An invalid submission re-presents the form with field errors and
// writes nothing.
func TestCreatePostInvalidFormNoMutation(t *testing.T) {
	server, r := newTestServer(t)
	_, token := signupAndLogin(t, r, "alice", "alice@example.com")

	body, _ := json.Marshal(map[string]string{"text": "   "})
	req, _ := http.NewRequest(http.MethodPost, "/new", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var responseBody map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
	errs := responseBody["response"].(map[string]interface{})["errors"].(map[string]interface{})
	assert.Contains(t, errs, "Required_text")

	var count int64
	require.NoError(t, server.DB.Model(&models.Post{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

// A principal who is not the author gets silently redirected to the
// post view and the text stays untouched.
func TestEditPostByNonAuthorRedirects(t *testing.T) {
	server, r := newTestServer(t)
	_, aliceToken := signupAndLogin(t, r, "alice", "alice@example.com")
	_, bobToken := signupAndLogin(t, r, "bob", "bob@example.com")

	post := createPost(t, server, r, aliceToken, "original text", nil)

	body, _ := json.Marshal(map[string]string{"text": "bob was here"})
	req, _ := http.NewRequest(http.MethodPost, detailPath(post)+"/edit", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bobToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detailPath(post), w.Header().Get("Location"))

	var refetched models.Post
	require.NoError(t, server.DB.Take(&refetched, post.ID).Error)
	assert.Equal(t, "original text", refetched.Text)
}

func TestEditPostByAuthor(t *testing.T) {
	server, r := newTestServer(t)
	_, token := signupAndLogin(t, r, "alice", "alice@example.com")

	post := createPost(t, server, r, token, "first draft", nil)

	body, _ := json.Marshal(map[string]string{"text": "second draft"})
	req, _ := http.NewRequest(http.MethodPost, detailPath(post)+"/edit", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detailPath(post), w.Header().Get("Location"))

	var refetched models.Post
	require.NoError(t, server.DB.Take(&refetched, post.ID).Error)
	assert.Equal(t, "second draft", refetched.Text)
}

// Fifteen posts, page size ten: page 1 has ten, page 2 has five, and a
// request for page 3 clamps back to page 2.
func TestIndexPagination(t *testing.T) {
	server, r := newTestServer(t)
	_, token := signupAndLogin(t, r, "alice", "alice@example.com")

	for i := 0; i < 15; i++ {
		createPost(t, server, r, token, fmt.Sprintf("post %d", i), nil)
	}

	pageOf := func(path string) (int, []interface{}, map[string]interface{}) {
		w := authedGet(r, "", path)
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		response := body["response"].(map[string]interface{})
		page := response["page"].(map[string]interface{})
		return int(page["number"].(float64)), response["posts"].([]interface{}), page
	}

	number, posts, page := pageOf("/?page=1")
	assert.Equal(t, 1, number)
	assert.Len(t, posts, 10)
	assert.Equal(t, true, page["has_next"])
	// Newest first.
	assert.Equal(t, "post 14", posts[0].(map[string]interface{})["text"])

	number, posts, page = pageOf("/?page=2")
	assert.Equal(t, 2, number)
	assert.Len(t, posts, 5)
	assert.Equal(t, false, page["has_next"])

	clampedNumber, clampedPosts, _ := pageOf("/?page=3")
	assert.Equal(t, 2, clampedNumber)
	assert.Len(t, clampedPosts, 5)
	assert.Equal(t,
		posts[0].(map[string]interface{})["text"],
		clampedPosts[0].(map[string]interface{})["text"])
}

func TestProfileFeedOnlyAuthorPosts(t *testing.T) {
	server, r := newTestServer(t)
	_, aliceToken := signupAndLogin(t, r, "alice", "alice@example.com")
	_, bobToken := signupAndLogin(t, r, "bob", "bob@example.com")

	createPost(t, server, r, aliceToken, "by alice", nil)
	createPost(t, server, r, bobToken, "by bob", nil)

	w := authedGet(r, "", "/alice")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	response := body["response"].(map[string]interface{})
	posts := response["posts"].([]interface{})
	require.Len(t, posts, 1)
	assert.Equal(t, "by alice", posts[0].(map[string]interface{})["text"])
	assert.Equal(t, "alice", response["author"].(map[string]interface{})["username"])
}

func TestProfileUnknownUserIs404(t *testing.T) {
	_, r := newTestServer(t)
	w := authedGet(r, "", "/nobody")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
