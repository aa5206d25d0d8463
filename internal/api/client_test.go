package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/activity-hub/internal/model"
)

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, func() string { return token },
		5*time.Second, slog.New(slog.DiscardHandler))
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	client := newTestClient(t, "my-token", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		fmt.Fprint(w, `{"count": 4}`)
	})

	count, err := client.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, "Bearer my-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_NoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	sawAuth := false
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		sawAuth = true
		fmt.Fprint(w, `{"count": 0}`)
	})

	_, err := client.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.True(t, sawAuth)
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedBecomesAuthError(t *testing.T) {
	client := newTestClient(t, "stale", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.UnreadCount(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))

	wrapped := fmt.Errorf("refreshing counter: %w", err)
	assert.True(t, IsAuthError(wrapped), "detection must survive wrapping")
}

func TestIsAuthError_OtherErrors(t *testing.T) {
	assert.False(t, IsAuthError(nil))
	assert.False(t, IsAuthError(errors.New("boom")))
}

func TestClient_ServerErrorMessageSurfaces(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message": "already archived"}`)
	})

	err := client.MarkRead(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already archived")
	assert.False(t, IsAuthError(err))
}

func TestListNotifications_QueryAndDecoding(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "ACTIVITY", q.Get("type"))
		assert.Equal(t, "UNREAD", q.Get("status"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("size"))

		fmt.Fprint(w, `{
			"content": [
				{"id": 1, "title": "first", "type": "ACTIVITY", "status": "UNREAD"},
				{"id": 2, "title": "second", "type": "ACTIVITY", "status": "READ"}
			],
			"totalPages": 3,
			"totalElements": 25,
			"number": 2
		}`)
	})

	page, err := client.ListNotifications(context.Background(), ListFilter{
		Type:   model.NotificationTypeActivity,
		Status: model.NotificationStatusUnread,
		Page:   2,
		Size:   10,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "first", page.Items[0].Title)
	assert.True(t, page.Items[0].Unread())
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(25), page.TotalElements)
	assert.Equal(t, 2, page.Number)
}

func TestGetNotification_ParsesMetadataReferences(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications/5", r.URL.Path)
		fmt.Fprint(w, `{
			"id": 5, "title": "enrolled", "type": "REGISTRATION",
			"status": "UNREAD",
			"metadata": {"activityId": 12, "activityTitle": "Chess Club"}
		}`)
	})

	detail, err := client.GetNotification(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, detail.ActivityID)
	assert.Equal(t, int64(12), *detail.ActivityID)
	assert.Equal(t, "Chess Club", detail.Meta.ActivityTitle)
}

func TestMarkRead_MethodAndPath(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.MarkRead(context.Background(), 9))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/notifications/9/read", gotPath)
}

func TestDeleteNotification_MethodAndPath(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteNotification(context.Background(), 9))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/notifications/9", gotPath)
}

func TestClient_RetriesOnRateLimit(t *testing.T) {
	attempts := 0
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"count": 1}`)
	})

	count, err := client.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, attempts)
}

func TestRetryAfterDuration(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}

	resp.Header.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, retryAfterDuration(resp, 0))

	resp.Header.Del("Retry-After")
	assert.Equal(t, 1*time.Second, retryAfterDuration(resp, 0))
	assert.Equal(t, 4*time.Second, retryAfterDuration(resp, 2))
	assert.Equal(t, 30*time.Second, retryAfterDuration(resp, 10))
}
