package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Following the same author twice leaves exactly one edge.
func TestFollowIsIdempotent(t *testing.T) {
	server, r := newTestServer(t)
	aliceID, aliceToken := signupAndLogin(t, r, "alice", "alice@example.com")
	bobID, _ := signupAndLogin(t, r, "bob", "bob@example.com")

	for i := 0; i < 2; i++ {
		w := authedGet(r, aliceToken, "/bob/follow")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/bob", w.Header().Get("Location"))
	}

	assert.EqualValues(t, 1, followEdgeCount(t, server, aliceID, bobID))
}

func TestUnfollowRemovesEdgeAndIsIdempotent(t *testing.T) {
	server, r := newTestServer(t)
	aliceID, aliceToken := signupAndLogin(t, r, "alice", "alice@example.com")
	bobID, _ := signupAndLogin(t, r, "bob", "bob@example.com")

	authedGet(r, aliceToken, "/bob/follow")
	require.EqualValues(t, 1, followEdgeCount(t, server, aliceID, bobID))

	for i := 0; i < 2; i++ {
		w := authedGet(r, aliceToken, "/bob/unfollow")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/bob", w.Header().Get("Location"))
	}

	assert.EqualValues(t, 0, followEdgeCount(t, server, aliceID, bobID))
}

// Self-follow is silently dropped: same redirect, no edge.
func TestSelfFollowCreatesNoEdge(t *testing.T) {
	server, r := newTestServer(t)
	aliceID, aliceToken := signupAndLogin(t, r, "alice", "alice@example.com")

	w := authedGet(r, aliceToken, "/alice/follow")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/alice", w.Header().Get("Location"))

	assert.EqualValues(t, 0, followEdgeCount(t, server, aliceID, aliceID))
}

func TestFollowUnknownAuthorIs404(t *testing.T) {
	_, r := newTestServer(t)
	_, token := signupAndLogin(t, r, "alice", "alice@example.com")

	w := authedGet(r, token, "/nobody/follow")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowRequiresLogin(t *testing.T) {
	_, r := newTestServer(t)
	signupAndLogin(t, r, "bob", "bob@example.com")

	w := authedGet(r, "", "/bob/follow")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fbob%2Ffollow", w.Header().Get("Location"))
}

// The follow feed shows posts by followed authors only, per viewer.
func TestFollowFeedIsolation(t *testing.T) {
	server, r := newTestServer(t)
	_, aliceToken := signupAndLogin(t, r, "alice", "alice@example.com")
	_, bobToken := signupAndLogin(t, r, "bob", "bob@example.com")
	_, carolToken := signupAndLogin(t, r, "carol", "carol@example.com")

	createPost(t, server, r, carolToken, "carol's post", nil)
	authedGet(r, aliceToken, "/carol/follow")

	feedTexts := func(token string) []string {
		w := authedGet(r, token, "/follow")
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		posts := body["response"].(map[string]interface{})["posts"].([]interface{})
		texts := make([]string, len(posts))
		for i, p := range posts {
			texts[i] = p.(map[string]interface{})["text"].(string)
		}
		return texts
	}

	assert.Equal(t, []string{"carol's post"}, feedTexts(aliceToken))
	assert.Empty(t, feedTexts(bobToken))
}

// Profile and post view report the viewer's follow state.
func TestProfileFollowingFlag(t *testing.T) {
	_, r := newTestServer(t)
	_, aliceToken := signupAndLogin(t, r, "alice", "alice@example.com")
	signupAndLogin(t, r, "bob", "bob@example.com")

	followingFlag := func() bool {
		w := authedGet(r, aliceToken, "/bob")
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body["response"].(map[string]interface{})["following"].(bool)
	}

	assert.False(t, followingFlag())
	authedGet(r, aliceToken, "/bob/follow")
	assert.True(t, followingFlag())
	authedGet(r, aliceToken, "/bob/unfollow")
	assert.False(t, followingFlag())
}
