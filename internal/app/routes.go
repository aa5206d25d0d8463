package app

import (
	"strconv"
	"strings"
)

// routeTarget is a parsed in-app route.
type routeTarget struct {
	view ViewState
	id   int64
}

// parseRoute maps a platform route to an in-app view. Routes carry a
// role prefix (/student or /manage) followed by the resource path; the
// prefix does not change which view renders, only which server surface
// the route belongs to.
func parseRoute(target string) (routeTarget, bool) {
	path := strings.TrimPrefix(target, "/student")
	if path == target {
		path = strings.TrimPrefix(target, "/manage")
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) != 2 {
		return routeTarget{}, false
	}

	id, err := strconv.ParseInt(segments[1], 10, 64)
	if err != nil {
		return routeTarget{}, false
	}

	switch segments[0] {
	case "activities":
		return routeTarget{view: ViewActivity, id: id}, true
	case "series":
		return routeTarget{view: ViewSeries, id: id}, true
	case "notifications":
		return routeTarget{view: ViewNotifDetail, id: id}, true
	}
	return routeTarget{}, false
}
