package server

import (
	"fmt"
	"net/http"
	"testing"

	"flowshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upvoteState(t *testing.T, resp *http.Response) bool {
	t.Helper()
	var body struct {
		HasUpvote bool `json:"hasUpvote"`
	}
	decodeBody(t, resp, &body)
	return body.HasUpvote
}

func TestPostUpvoteHandlers(t *testing.T) {
	_, app := newTestServer(t)
	author := signupUser(t, app, "author")
	voter := signupUser(t, app, "voter")
	post := createPost(t, app, author, "Votable", nil)
	upvotePath := "/api/posts/" + post.PostID + "/upvote"

	t.Run("RequiresAuth", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, upvotePath, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("CastIsIdempotent", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, upvotePath, voter, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, upvoteState(t, resp))

		// casting again changes nothing
		resp = doJSON(t, app, http.MethodPut, upvotePath, voter, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, upvoteState(t, resp))

		resp = doJSON(t, app, http.MethodGet, "/api/posts/"+post.PostID, voter, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got models.Post
		decodeBody(t, resp, &got)
		assert.Equal(t, 1, got.Score)
		assert.True(t, got.HasUpvote)
	})

	t.Run("OtherViewersDoNotSeeTheVoteAsTheirs", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/"+post.PostID, author, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got models.Post
		decodeBody(t, resp, &got)
		assert.Equal(t, 1, got.Score)
		assert.False(t, got.HasUpvote)
	})

	t.Run("RetractIsIdempotent", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, upvotePath, voter, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.False(t, upvoteState(t, resp))

		resp = doJSON(t, app, http.MethodDelete, upvotePath, voter, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.False(t, upvoteState(t, resp))

		resp = doJSON(t, app, http.MethodGet, "/api/posts/"+post.PostID, voter, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got models.Post
		decodeBody(t, resp, &got)
		assert.Equal(t, 0, got.Score)
		assert.False(t, got.HasUpvote)
	})

	t.Run("ToggleFlipsState", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, upvotePath, voter, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, upvoteState(t, resp))

		resp = doJSON(t, app, http.MethodPost, upvotePath, voter, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.False(t, upvoteState(t, resp))
	})

	t.Run("UnknownPostIs404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/posts/zzzzzzzz/upvote", voter, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestCommentUpvoteHandlers(t *testing.T) {
	_, app := newTestServer(t)
	token := signupUser(t, app, "cvoter")
	post := createPost(t, app, token, "Comment votes", nil)

	resp := doJSON(t, app, http.MethodPost, "/api/posts/"+post.PostID+"/comments", token, map[string]string{
		"content": "vote for me",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var comment models.Comment
	decodeBody(t, resp, &comment)

	upvotePath := fmt.Sprintf("/api/comments/%d/upvote", comment.ID)

	t.Run("CastAndRetract", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, upvotePath, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, upvoteState(t, resp))

		resp = doJSON(t, app, http.MethodDelete, upvotePath, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.False(t, upvoteState(t, resp))
	})

	t.Run("ScoreAndDecorationVisibleInListing", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, upvotePath, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		resp = doJSON(t, app, http.MethodGet, "/api/posts/"+post.PostID+"/comments", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var comments []models.Comment
		decodeBody(t, resp, &comments)
		require.Len(t, comments, 1)
		assert.Equal(t, 1, comments[0].Score)
		assert.True(t, comments[0].HasUpvote)
	})

	t.Run("UnknownCommentIs404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/comments/99999/upvote", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("MalformedCommentIDIs400", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/comments/abc/upvote", token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})
}
