package rest

import (
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"
)

const (
	requestSuffix    = "Request"
	replyRoutePrefix = "/json/reply/"
)

var (
	acronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	wordBoundary    = regexp.MustCompile(`([a-z\d])([A-Z])`)
)

// RouteName derives a route from a type name:
//
//	CreateUserRequest  -> /create-user
//	HelloRequest       -> /hello
//	Hello              -> /hello
//	HTTPServerStatus   -> /http-server-status
//	api.GetV2Users     -> /get-v2-users
//
// Package qualifiers (".", "::", "/"), pointer markers and generic type
// arguments are dropped first. One trailing "Request" is removed unless it
// is the whole name. An empty name yields "".
func RouteName(typeName string) string {
	name := strings.TrimLeft(strings.TrimSpace(typeName), "*")
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexAny(name, "./:"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return ""
	}
	if trimmed := strings.TrimSuffix(name, requestSuffix); trimmed != "" {
		name = trimmed
	}
	name = acronymBoundary.ReplaceAllString(name, "${1}-${2}")
	name = wordBoundary.ReplaceAllString(name, "${1}-${2}")
	return "/" + strings.ToLower(name)
}

// Routes maps request types to declared routes. It is safe for concurrent use.
type Routes struct {
	mu     sync.RWMutex
	byType map[reflect.Type]string
}

// DefaultRoutes is consulted by every client after its own Routes.
var DefaultRoutes = NewRoutes()

// NewRoutes creates an empty route table.
func NewRoutes() *Routes {
	return &Routes{byType: make(map[reflect.Type]string)}
}

// Register declares the route for the type of sample. Pointer and value
// forms of a type share one entry.
func (r *Routes) Register(sample any, route string) *Routes {
	if tr, ok := sample.(*TypedRequest); ok {
		return r.RegisterType(tr.underlyingType(), route)
	}
	return r.RegisterType(reflect.TypeOf(sample), route)
}

// RegisterType declares the route for t.
func (r *Routes) RegisterType(t reflect.Type, route string) *Routes {
	t = indirectType(t)
	if t == nil {
		return r
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if route == "" {
		delete(r.byType, t)
	} else {
		r.byType[t] = ensureLeadingSlash(route)
	}
	return r
}

// Lookup returns the route declared for t.
func (r *Routes) Lookup(t reflect.Type) (string, bool) {
	t = indirectType(t)
	if r == nil || t == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	route, ok := r.byType[t]
	return route, ok
}

// Len returns the number of declared routes.
func (r *Routes) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType)
}

// RegisterRoute declares the route for T on DefaultRoutes.
//
//	rest.RegisterRoute[CreateUserRequest]("/users")
func RegisterRoute[T any](route string) {
	DefaultRoutes.RegisterType(reflect.TypeFor[T](), route)
}

// resolveRoute applies the route priority: explicit path, declared type
// route, the request's own route, the derived type name, /json/reply fallback.
func resolveRoute(explicit string, n *Normalized, tables ...*Routes) string {
	if explicit != "" {
		if isAbsoluteURL(explicit) {
			return explicit
		}
		return ensureLeadingSlash(explicit)
	}
	if n.Type != nil {
		for _, table := range tables {
			if route, ok := table.Lookup(n.Type); ok {
				return route
			}
		}
	}
	if n.Route != "" {
		return ensureLeadingSlash(n.Route)
	}
	if n.Typed() {
		if route := RouteName(n.TypeName); route != "" {
			return route
		}
	}
	first := "request"
	if n.Fields.Len() > 0 {
		first = n.Fields.keys[0]
	}
	return replyRoutePrefix + url.PathEscape(first)
}

// joinURL appends route to baseURL unless route is already absolute.
func joinURL(baseURL, route string) string {
	if isAbsoluteURL(route) {
		return route
	}
	return baseURL + route
}

func ensureLeadingSlash(route string) string {
	if strings.HasPrefix(route, "/") {
		return route
	}
	return "/" + route
}

func isAbsoluteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
