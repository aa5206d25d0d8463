// Package navigate picks the destination for a clicked notification. Every
// surface that reacts to a notification click goes through Resolve, so the
// priority order cannot diverge between surfaces.
package navigate

import (
	"fmt"
	"strings"

	"github.com/nhle/activity-hub/internal/model"
)

// Surface identifies which notification surface asked for a resolution.
type Surface int

const (
	SurfaceDropdown Surface = iota
	SurfaceList
	SurfaceDetail
)

// Kind classifies the resolved destination.
type Kind int

const (
	// KindNone means there is nothing to navigate to; Message carries a
	// user-visible explanation.
	KindNone Kind = iota

	// KindExternal is a full cross-document navigation to an absolute URL.
	KindExternal

	// KindRoute is an in-app navigation to a platform route.
	KindRoute
)

// Destination is the resolved navigation target for a notification.
type Destination struct {
	Kind    Kind
	Target  string
	Message string
}

// Resolve applies the navigation priority order: an absolute action URL
// wins, then a relative action URL, then the activity reference, then the
// series reference. With none of those, the notification's own detail
// route is the fallback, except on the detail surface itself where there
// is nothing left to open and the user is told so.
func Resolve(detail model.NotificationDetail, role model.Role, surface Surface) Destination {
	if url := detail.ActionURL; url != "" {
		if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
			return Destination{Kind: KindExternal, Target: url}
		}
		return Destination{Kind: KindRoute, Target: url}
	}

	prefix := rolePrefix(role)

	if detail.ActivityID != nil {
		return Destination{
			Kind:   KindRoute,
			Target: fmt.Sprintf("%s/activities/%d", prefix, *detail.ActivityID),
		}
	}
	if detail.SeriesID != nil {
		return Destination{
			Kind:   KindRoute,
			Target: fmt.Sprintf("%s/series/%d", prefix, *detail.SeriesID),
		}
	}

	if surface == SurfaceDetail {
		return Destination{Kind: KindNone, Message: "no link available"}
	}
	return Destination{
		Kind:   KindRoute,
		Target: fmt.Sprintf("%s/notifications/%d", prefix, detail.ID),
	}
}

// rolePrefix returns the path prefix for the caller's surfaces. Students
// and managerial roles share the same routes apart from this prefix.
func rolePrefix(role model.Role) string {
	if role.Managerial() {
		return "/manage"
	}
	return "/student"
}
