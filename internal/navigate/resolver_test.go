package navigate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/activity-hub/internal/model"
)

func detail(n model.Notification) model.NotificationDetail {
	return model.NotificationDetail{Notification: n}
}

func ptr(v int64) *int64 { return &v }

func TestResolve_PriorityOrder(t *testing.T) {
	activityID := ptr(7)
	seriesID := ptr(9)

	tests := []struct {
		name string
		n    model.Notification
		want Destination
	}{
		{
			"absolute action url wins over everything",
			model.Notification{
				ID:         1,
				ActionURL:  "https://example.com/page",
				ActivityID: activityID,
				SeriesID:   seriesID,
			},
			Destination{Kind: KindExternal, Target: "https://example.com/page"},
		},
		{
			"plain http url is external too",
			model.Notification{ID: 1, ActionURL: "http://example.com"},
			Destination{Kind: KindExternal, Target: "http://example.com"},
		},
		{
			"relative action url is an in-app route",
			model.Notification{
				ID:         1,
				ActionURL:  "/student/activities/3",
				ActivityID: activityID,
			},
			Destination{Kind: KindRoute, Target: "/student/activities/3"},
		},
		{
			"activity reference wins over series",
			model.Notification{ID: 1, ActivityID: activityID, SeriesID: seriesID},
			Destination{Kind: KindRoute, Target: "/student/activities/7"},
		},
		{
			"series reference",
			model.Notification{ID: 1, SeriesID: seriesID},
			Destination{Kind: KindRoute, Target: "/student/series/9"},
		},
		{
			"bare notification falls back to its own detail",
			model.Notification{ID: 42},
			Destination{Kind: KindRoute, Target: "/student/notifications/42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(detail(tt.n), model.RoleStudent, SurfaceList)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_RolePrefix(t *testing.T) {
	n := model.Notification{ID: 1, ActivityID: ptr(7)}

	tests := []struct {
		role model.Role
		want string
	}{
		{model.RoleStudent, "/student/activities/7"},
		{model.RoleAdmin, "/manage/activities/7"},
		{model.RoleManager, "/manage/activities/7"},
	}

	for _, tt := range tests {
		got := Resolve(detail(n), tt.role, SurfaceDropdown)
		assert.Equal(t, tt.want, got.Target)
	}
}

// The absolute URL branch ignores the role prefix entirely.
func TestResolve_ExternalURLIgnoresRole(t *testing.T) {
	n := model.Notification{ID: 1, ActionURL: "https://example.com"}

	for _, role := range []model.Role{model.RoleStudent, model.RoleAdmin} {
		got := Resolve(detail(n), role, SurfaceList)
		assert.Equal(t, KindExternal, got.Kind)
		assert.Equal(t, "https://example.com", got.Target)
	}
}

func TestResolve_DetailSurfaceHasNoFallback(t *testing.T) {
	n := model.Notification{ID: 42}

	got := Resolve(detail(n), model.RoleStudent, SurfaceDetail)
	assert.Equal(t, KindNone, got.Kind)
	assert.Equal(t, "no link available", got.Message)

	// With an actual target the detail surface navigates like the others.
	n.SeriesID = ptr(5)
	got = Resolve(detail(n), model.RoleStudent, SurfaceDetail)
	assert.Equal(t, KindRoute, got.Kind)
	assert.Equal(t, "/student/series/5", got.Target)
}

// Metadata-sourced references resolve the same way as record-level ones.
func TestResolve_MetadataReferences(t *testing.T) {
	n := model.Notification{
		ID:       1,
		Metadata: []byte(`{"activityId": 11}`),
	}

	got := Resolve(n.Detail(), model.RoleStudent, SurfaceList)
	assert.Equal(t, Destination{Kind: KindRoute, Target: "/student/activities/11"}, got)
}
