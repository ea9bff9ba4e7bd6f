package app

import (
	"net/http"
	"strings"

	"barberbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

// Segments after these are path parameters.
var paramParents = map[string]bool{
	"id":        true,
	"customers": true,
	"windows":   true,
	"services":  true,
	"favorites": true,
}

// RouteLabeler labels requests the router can serve with their path
// template, so ids never become metric labels.
func RouteLabeler(router *httprouter.Router) middleware.RouteLabeler {
	return func(r *http.Request) string {
		if handle, _, _ := router.Lookup(r.Method, r.URL.Path); handle == nil {
			return "unmatched"
		}
		return routeTemplate(r.URL.Path)
	}
}

func routeTemplate(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := 1; i < len(segments); i++ {
		prev := segments[i-1]
		if paramParents[prev] || (prev == "barbers" && segments[i] != "id") {
			segments[i] = ":param"
		}
	}
	return "/" + strings.Join(segments, "/")
}
