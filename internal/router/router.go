// Package router assembles the gin engine: middleware, the per-kind CRUD
// routes, login, health, metrics and the documentation UI.
package router

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/harentsoaR/school-api/internal/config"
	"github.com/harentsoaR/school-api/internal/docs"
	"github.com/harentsoaR/school-api/internal/handlers"
	"github.com/harentsoaR/school-api/internal/middleware"
	"github.com/harentsoaR/school-api/internal/models"
	"github.com/harentsoaR/school-api/internal/resource"
	"github.com/harentsoaR/school-api/internal/store"
)

// Resource is a handler set that serves one entity kind.
type Resource interface {
	Descriptor() resource.Descriptor
	Routes() []handlers.Route
}

// Resources builds the handler set of every entity kind on s.
func Resources(s store.Store, logger *zap.Logger) (*resource.Engine[models.User], []Resource) {
	users := resource.NewEngine[models.User](models.UserKind, s)
	return users, []Resource{
		handlers.NewCRUDHandler(users, logger),
		handlers.NewCRUDHandler(resource.NewEngine[models.Teacher](models.TeacherKind, s), logger),
		handlers.NewCRUDHandler(resource.NewEngine[models.Student](models.StudentKind, s), logger),
		handlers.NewCRUDHandler(resource.NewEngine[models.HealthProfessional](models.HealthProfessionalKind, s), logger),
		handlers.NewCRUDHandler(resource.NewEngine[models.Event](models.EventKind, s), logger),
		handlers.NewCRUDHandler(resource.NewEngine[models.Appointment](models.AppointmentKind, s), logger),
	}
}

// segmentRank orders path segments: literals before parameters before
// catch-alls.
func segmentRank(seg string) int {
	switch {
	case strings.HasPrefix(seg, "*"):
		return 2
	case strings.HasPrefix(seg, ":"):
		return 1
	default:
		return 0
	}
}

// moreSpecific reports whether route a must be registered before b.
func moreSpecific(a, b handlers.Route) bool {
	as := strings.Split(strings.Trim(a.Path, "/"), "/")
	bs := strings.Split(strings.Trim(b.Path, "/"), "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		ra, rb := segmentRank(as[i]), segmentRank(bs[i])
		if ra != rb {
			return ra < rb
		}
		if as[i] != bs[i] {
			return as[i] < bs[i]
		}
	}
	if len(as) != len(bs) {
		return len(as) < len(bs)
	}
	return a.Method < b.Method
}

// RouteTable collects the routes of every resource ordered by specificity,
// so /<kind>/search always precedes /<kind>/:id.
func RouteTable(resources []Resource) []handlers.Route {
	var routes []handlers.Route
	for _, r := range resources {
		routes = append(routes, r.Routes()...)
	}
	sort.SliceStable(routes, func(i, j int) bool { return moreSpecific(routes[i], routes[j]) })
	return routes
}

// Options are the collaborators New wires together.
type Options struct {
	Config   *config.Config
	Store    store.Store
	Logger   *zap.Logger
	Registry *prometheus.Registry
}

// New sets up the store indexes and returns the engine and the users engine
// (used for admin bootstrap).
func New(ctx context.Context, opts Options) (*gin.Engine, *resource.Engine[models.User], error) {
	cfg, logger := opts.Config, opts.Logger

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	metrics := middleware.NewMetrics(opts.Registry)
	r.Use(metrics.Handler())

	users, resources := Resources(opts.Store, logger)
	kinds := make([]resource.Descriptor, 0, len(resources))
	for _, res := range resources {
		kinds = append(kinds, res.Descriptor())
	}
	if err := resource.EnsureIndexes(ctx, opts.Store, kinds...); err != nil {
		return nil, nil, err
	}
	h := handlers.NewHandler(opts.Store, users, cfg.JWTSecret, logger)

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))

	if err := docs.Publish(docs.Build(docs.Options{BasePath: cfg.APIPrefix, AuthEnabled: cfg.AuthEnabled}, kinds)); err != nil {
		return nil, nil, err
	}
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group(cfg.APIPrefix)
	if !cfg.AuthEnabled {
		for _, route := range RouteTable(resources) {
			api.Handle(route.Method, route.Path, route.Handler)
		}
		return r, users, nil
	}

	api.POST("/auth/login", middleware.RateLimit(middleware.NewRateLimiter(cfg.LoginRateRPS, cfg.LoginRateBurst)), h.Login)
	protected := api.Group("", middleware.AuthMiddleware(cfg.JWTSecret))
	for _, route := range RouteTable(resources) {
		if route.Role != "" {
			protected.Handle(route.Method, route.Path, middleware.RequireRole(route.Role), route.Handler)
			continue
		}
		protected.Handle(route.Method, route.Path, route.Handler)
	}

	return r, users, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
