package server

import (
	"log/slog"
	"net/http"
	"time"

	"taskdesk/internal/blobstore"
	"taskdesk/internal/identity"
	"taskdesk/internal/store"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
)

// Server wraps the HTTP handlers for the taskdesk API. All collaborators are
// injected at construction time; nothing here is ambient process state.
type Server struct {
	addr        string
	taskService *TaskService
	fileService *FileService
	authGateway *AuthGateway
	logger      *slog.Logger
}

// New creates a new server instance.
func New(addr string, taskStore store.TaskStore, blobs blobstore.BlobStore, provider identity.Provider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	taskService := NewTaskService(taskStore)
	return &Server{
		addr:        addr,
		taskService: taskService,
		fileService: NewFileService(blobs, taskService, logger.With("component", "files")),
		authGateway: NewAuthGateway(provider, logger.With("component", "auth")),
		logger:      logger,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
