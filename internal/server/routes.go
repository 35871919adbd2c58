package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskdesk/internal/api"
)

type routeGroup string

const (
	groupAuth   routeGroup = "auth"
	groupTasks  routeGroup = "tasks"
	groupFiles  routeGroup = "files"
	groupSystem routeGroup = "system"
)

type route struct {
	method  string
	pattern string
	group   routeGroup
	handler http.HandlerFunc
}

// router matches requests against an explicit route table so the 404 body
// can enumerate the routes that would have matched. A plain ServeMux
// answers a wrong method with 405 and an empty body, which hides the
// valid routes from the caller.
type router struct {
	routes     []route
	notFound   http.HandlerFunc
	instrument func(group string, next http.HandlerFunc) http.HandlerFunc
}

func (rt *router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		setCORSHeaders(w)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	for _, rte := range rt.routes {
		if rte.method != r.Method {
			continue
		}
		params, ok := matchPattern(rte.pattern, r.URL.Path)
		if !ok {
			continue
		}
		for name, value := range params {
			r.SetPathValue(name, value)
		}
		h := rte.handler
		if rt.instrument != nil {
			h = rt.instrument(string(rte.group), h)
		}
		h(w, r)
		return
	}

	rt.notFound(w, r)
}

// matchPattern matches a path against a pattern like
// /tasks/{task_id}/files/{file_id}. Segments wrapped in braces capture the
// corresponding path segment; everything else must match literally.
func matchPattern(pattern, path string) (map[string]string, bool) {
	patSegs := splitPath(pattern)
	pathSegs := splitPath(path)
	if len(patSegs) != len(pathSegs) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range patSegs {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if pathSegs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[strings.Trim(seg, "{}")] = pathSegs[i]
			continue
		}
		if seg != pathSegs[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func (s *Server) routeTable() []route {
	return []route{
		{http.MethodGet, "/health", groupSystem, s.handleHealth},
		{http.MethodGet, "/metrics", groupSystem, promhttp.Handler().ServeHTTP},

		{http.MethodPost, "/auth/register", groupAuth, s.handleAuthRegister},
		{http.MethodPost, "/auth/login", groupAuth, s.handleAuthLogin},
		{http.MethodGet, "/auth/user", groupAuth, s.handleAuthProfile},
		{http.MethodPost, "/auth/forgot-password", groupAuth, s.handleAuthForgotPassword},
		{http.MethodPost, "/auth/reset-password", groupAuth, s.handleAuthResetPassword},

		{http.MethodGet, "/tasks", groupTasks, s.handleTaskList},
		{http.MethodPost, "/tasks", groupTasks, s.handleTaskCreate},
		{http.MethodGet, "/tasks/{task_id}", groupTasks, s.handleTaskGet},
		{http.MethodPut, "/tasks/{task_id}", groupTasks, s.handleTaskUpdate},
		{http.MethodDelete, "/tasks/{task_id}", groupTasks, s.handleTaskDelete},

		{http.MethodPost, "/tasks/{task_id}/files", groupFiles, s.handleFileUpload},
		{http.MethodGet, "/tasks/{task_id}/files", groupFiles, s.handleFileList},
		{http.MethodGet, "/files/{file_id}", groupFiles, s.handleFileDownload},
		{http.MethodDelete, "/files/{file_id}", groupFiles, s.handleFileDelete},
	}
}

func (s *Server) routes() http.Handler {
	table := s.routeTable()
	rt := &router{
		routes:     table,
		instrument: instrumentHandler,
	}
	rt.notFound = func(w http.ResponseWriter, r *http.Request) {
		s.handleNotFound(w, r, table)
	}
	return s.logRequests(rt)
}

// handleNotFound classifies the unmatched path into a service group and
// answers with the routes of that group, so a caller who mistyped a path
// or used the wrong method can self-correct.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request, table []route) {
	group := classifyPath(r.URL.Path)

	var valid []api.RouteRef
	for _, rte := range table {
		if group != "" && rte.group != group {
			continue
		}
		if rte.group == groupSystem {
			continue
		}
		valid = append(valid, api.RouteRef{Method: rte.method, Path: rte.pattern})
	}

	err := notFoundCode(fmt.Errorf("no route for %s %s", r.Method, r.URL.Path), ErrCodeRouteNotFound)
	s.log().Debug("route not found", "method", r.Method, "path", r.URL.Path)
	s.writeJSON(w, http.StatusNotFound, api.ErrorResponse{
		Error:       err.Error(),
		Code:        errorCode(http.StatusNotFound, err),
		ErrorCode:   ErrCodeRouteNotFound,
		ValidRoutes: valid,
	})
}

func classifyPath(path string) routeGroup {
	segs := splitPath(path)
	if len(segs) == 0 {
		return ""
	}
	switch segs[0] {
	case "auth":
		return groupAuth
	case "files":
		return groupFiles
	case "tasks":
		if len(segs) >= 3 && segs[2] == "files" {
			return groupFiles
		}
		return groupTasks
	default:
		return ""
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}
