package api

import (
	"context"
	"fmt"
	"time"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Artexxx/HR-Directory/internal/dto"
	"github.com/Artexxx/HR-Directory/internal/exchange/producer"
	"github.com/Artexxx/HR-Directory/internal/validation"
)

// @title           HR Directory — Employees API
// @version         1.0
// @description     REST-бэкенд справочника сотрудников: CRUD, аудит изменений через Kafka, DLQ.
//
// @BasePath  /
// @schemes   http
// @accept    json
// @produce   json

type EmployeeRepository interface {
	Create(ctx context.Context, e dto.Employee) error
	Update(ctx context.Context, e dto.Employee) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*dto.Employee, error)
	List(ctx context.Context) ([]dto.Employee, error)
	Reset(ctx context.Context) error
}

type EventsRepository interface {
	ListEvents(ctx context.Context, limit, offset int) ([]dto.KafkaEvent, error)
	ListDLQ(ctx context.Context, limit, offset int) ([]dto.KafkaDLQ, error)
	ResetAll(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, kind producer.Kind, e dto.Employee) (uuid.UUID, error)
}

type ServiceDeps struct {
	Port int

	Employees EmployeeRepository
	// Events is nil when no audit store is configured.
	Events EventsRepository
	// Producer is nil when Kafka is disabled.
	Producer  Producer
	Validator *validation.Validator

	// Registry defaults to a fresh prometheus registry.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

type Service struct {
	r       *router.Router
	server  *fasthttp.Server
	port    int
	metrics *metrics
	log     zerolog.Logger

	employees EmployeeRepository
	events    EventsRepository
	producer  Producer
	validator *validation.Validator
	newID     func() string
}

func NewService(d ServiceDeps) *Service {
	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	v := d.Validator
	if v == nil {
		v = validation.New()
	}

	s := &Service{
		r:         router.New(),
		port:      d.Port,
		metrics:   newMetrics(reg),
		log:       d.Log.With().Str("component", "EmployeesAPI").Logger(),
		employees: d.Employees,
		events:    d.Events,
		producer:  d.Producer,
		validator: v,
		newID:     uuid.NewString,
	}

	s.mountRoutes(reg)

	s.server = &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "hr-directory-api",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       15 * time.Second,
		MaxRequestBodySize: 2 << 20, // 2 MiB
	}

	return s
}

// Handler is the full middleware chain around the router.
func (s *Service) Handler() fasthttp.RequestHandler {
	return RecoveryMiddleware(LoggingMiddleware(s.metrics.middleware(CORS(s.r.Handler))))
}

func (s *Service) Start(ctx context.Context) error {
	s.log.Info().Int("port", s.port).Msg("Starting employees API")

	emergencyShutdown := make(chan error, 1)
	go func() {
		emergencyShutdown <- s.server.ListenAndServe(fmt.Sprintf(":%d", s.port))
	}()

	select {
	case <-ctx.Done():
		return s.server.Shutdown()
	case e := <-emergencyShutdown:
		return e
	}
}

func (s *Service) mountRoutes(reg *prometheus.Registry) {
	// Employees
	s.r.GET("/employees", s.listEmployees)
	s.r.POST("/employees", s.createEmployee)
	s.r.GET("/employees/{id}", s.getEmployee)
	s.r.PUT("/employees/{id}", s.updateEmployee)
	s.r.DELETE("/employees/{id}", s.deleteEmployee)

	// Events/DLQ
	s.r.GET("/events", s.listEvents)
	s.r.GET("/dlq", s.listDLQ)

	// Admin & Health
	s.r.GET("/health", s.healthHandler)
	s.r.GET("/metrics", metricsHandler(reg))
	s.r.POST("/admin/reset", s.resetHandler)
}
