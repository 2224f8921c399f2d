package router

import (
	"net/http"
	"strings"
)

type Middleware func(http.Handler) http.Handler

// Router is a thin layer over http.ServeMux adding middleware chains and
// prefix mounted sub routers. Patterns accept the ServeMux method syntax
// ("GET /corpus/{corpus_id}").
type Router struct {
	prefix     string
	mux        *http.ServeMux
	middleware []Middleware
}

func New() *Router {
	return &Router{
		prefix: "",
		mux:    http.NewServeMux(),
	}
}

func (rt *Router) Use(mw ...Middleware) {
	rt.middleware = append(rt.middleware, mw...)
}

func (rt *Router) Handle(pattern string, handler http.Handler) {
	rt.mux.Handle(normalize(pattern), handler)
}

func (rt *Router) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	rt.mux.HandleFunc(normalize(pattern), handler)
}

// SubRouter mounts a new router under prefix. Middleware registered on the
// parent already wraps the sub router; middleware added to the sub router only
// applies below the prefix.
func (rt *Router) SubRouter(prefix string) *Router {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		panic("empty subrouter prefix")
	}

	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	s := &Router{
		prefix: rt.prefix + prefix,
		mux:    http.NewServeMux(),
	}

	rt.mux.Handle(prefix+"/", http.StripPrefix(prefix, s))
	return s
}

// Prefix returns the absolute mount point of the router.
func (rt *Router) Prefix() string {
	return rt.prefix
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var h http.Handler = rt.mux
	for i := len(rt.middleware) - 1; i >= 0; i-- {
		h = rt.middleware[i](h)
	}

	h.ServeHTTP(w, r)
}

func normalize(pattern string) string {
	method, path, found := strings.Cut(pattern, " ")
	if !found {
		method, path = "", pattern
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if method == "" {
		return path
	}

	return method + " " + path
}
