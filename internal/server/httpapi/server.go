// Package httpapi exposes the REST surface of the server: auth endpoints,
// task CRUD, and the middleware chain (request id, logging, CORS, bearer
// auth).
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/avolkau/taskkeeper/internal/logging"
	"github.com/avolkau/taskkeeper/internal/server/models"
	"github.com/avolkau/taskkeeper/internal/server/services"
)

// UserService is the slice of the auth service the handlers need.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// TaskService is the slice of the task service the handlers need.
type TaskService interface {
	Create(ctx context.Context, userID int64, title string, description *string) (*models.Task, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.Task, error)
	GetForUser(ctx context.Context, id, userID int64) (*models.Task, error)
	Update(ctx context.Context, id, userID int64, patch services.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id, userID int64) error
}

type Server struct {
	address        string
	logger         logging.Logger
	users          UserService
	tasks          TaskService
	jwtSecret      []byte
	frontendOrigin string
}

func NewServer(address string, l logging.Logger, us UserService, ts TaskService, secretKey string, frontendOrigin string) *Server {
	registerValidations()

	return &Server{
		address:        address,
		logger:         l.With("module", "httpapi"),
		users:          us,
		tasks:          ts,
		jwtSecret:      []byte(secretKey),
		frontendOrigin: frontendOrigin,
	}
}

// registerValidations configures gin's JSON binding: bodies with unknown
// fields are rejected, and the custom "notblank" validator rejects strings
// that are empty after trimming.
func registerValidations() {
	binding.EnableDecoderDisallowUnknownFields = true

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	}
}

// Handler assembles the gin engine with the full middleware chain and routes.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(s.logger))
	r.Use(CORS(s.frontendOrigin))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
	}

	taskGroup := r.Group("/tasks")
	taskGroup.Use(BearerAuth(s.jwtSecret))
	{
		taskGroup.GET("", s.handleListTasks)
		taskGroup.POST("", s.handleCreateTask)
		taskGroup.GET("/:id", s.handleGetTask)
		taskGroup.PATCH("/:id", s.handleUpdateTask)
		taskGroup.DELETE("/:id", s.handleDeleteTask)
	}

	return r
}

// Run serves the API until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
