package server

import (
	"fmt"
	"net/http"
	"testing"

	"flowshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentHandler(t *testing.T) {
	_, app := newTestServer(t)
	token := signupUser(t, app, "commenter")
	post := createPost(t, app, token, "Discussable", nil)

	t.Run("RequiresAuth", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/"+post.PostID+"/comments", "", map[string]string{
			"content": "anonymous",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("CreatesTopLevelComment", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/"+post.PostID+"/comments", token, map[string]string{
			"content": "great gallery",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var comment models.Comment
		decodeBody(t, resp, &comment)
		assert.Equal(t, "great gallery", comment.Content)
		assert.Nil(t, comment.ParentID)
		assert.Equal(t, "commenter", comment.User.Username)

		// the post's denormalized counter moves
		resp = doJSON(t, app, http.MethodGet, "/api/posts/"+post.PostID, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got models.Post
		decodeBody(t, resp, &got)
		assert.Equal(t, 1, got.CommentCount)
	})

	t.Run("EmptyContentIs400", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/"+post.PostID+"/comments", token, map[string]string{
			"content": "   ",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("UnknownPostIs404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/zzzzzzzz/comments", token, map[string]string{
			"content": "into the void",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestCreateReplyHandler(t *testing.T) {
	_, app := newTestServer(t)
	token := signupUser(t, app, "replier")
	post := createPost(t, app, token, "Threaded", nil)

	resp := doJSON(t, app, http.MethodPost, "/api/posts/"+post.PostID+"/comments", token, map[string]string{
		"content": "top level",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var parent models.Comment
	decodeBody(t, resp, &parent)

	t.Run("CreatesReplyUnderParent", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/comments/%d/replies", parent.ID), token, map[string]string{
			"postId":  post.PostID,
			"content": "nested answer",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var reply models.Comment
		decodeBody(t, resp, &reply)
		require.NotNil(t, reply.ParentID)
		assert.Equal(t, parent.ID, *reply.ParentID)
	})

	t.Run("ReplyToReplyIsRejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/comments/%d/replies", parent.ID), token, map[string]string{
			"postId":  post.PostID,
			"content": "first level",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var reply models.Comment
		decodeBody(t, resp, &reply)

		resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/comments/%d/replies", reply.ID), token, map[string]string{
			"postId":  post.PostID,
			"content": "second level",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("ParentOnDifferentPostIsRejected", func(t *testing.T) {
		otherPost := createPost(t, app, token, "Elsewhere", nil)
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/comments/%d/replies", parent.ID), token, map[string]string{
			"postId":  otherPost.PostID,
			"content": "wrong thread",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestGetCommentsHandler(t *testing.T) {
	_, app := newTestServer(t)
	token := signupUser(t, app, "lister")
	post := createPost(t, app, token, "Commented", nil)

	var parent models.Comment
	resp := doJSON(t, app, http.MethodPost, "/api/posts/"+post.PostID+"/comments", token, map[string]string{
		"content": "visible",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &parent)

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/comments/%d/replies", parent.ID), token, map[string]string{
		"postId":  post.PostID,
		"content": "hidden from the top level",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	t.Run("TopLevelOnly", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/"+post.PostID+"/comments", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var comments []models.Comment
		decodeBody(t, resp, &comments)
		require.Len(t, comments, 1)
		assert.Equal(t, "visible", comments[0].Content)
		assert.Equal(t, 1, comments[0].ReplyCount)
	})

	t.Run("RepliesEndpointListsChildren", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/comments/%d/replies", parent.ID), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var replies []models.Comment
		decodeBody(t, resp, &replies)
		require.Len(t, replies, 1)
		assert.Equal(t, "hidden from the top level", replies[0].Content)
	})

	t.Run("UnknownSortIs400", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/"+post.PostID+"/comments?sort=top", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})
}
