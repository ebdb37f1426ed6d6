package api

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Skufu/diabetes-risk/internal/assess"
	"github.com/Skufu/diabetes-risk/internal/features"
	"github.com/Skufu/diabetes-risk/internal/model"
	"github.com/Skufu/diabetes-risk/internal/store"
)

const maxBodyBytes = 1 << 20

//go:embed templates/*.tmpl
var templateFS embed.FS

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HistoryLister pages through stored assessments, newest first.
type HistoryLister interface {
	List(ctx context.Context, p store.Page) ([]assess.Assessment, bool, error)
}

// Deps is everything the router needs. DB and History may be nil when
// storage is disabled.
type Deps struct {
	Service *assess.Service
	Model   model.Info
	DB      HealthChecker
	History HistoryLister
	Origins []string
	Log     *zap.SugaredLogger
}

func NewRouter(d Deps) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	if d.Log == nil {
		d.Log = zap.NewNop().Sugar()
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(
		requestLogger(d.Log),
		gin.Recovery(),
		limitBodySize(maxBodyBytes),
		setupCORS(d.Origins),
	)

	h := &Handler{
		svc:     d.Service,
		model:   d.Model,
		history: d.History,
		log:     d.Log,
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", readiness(d.DB))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/", h.Index)
	router.POST("/assess/clinical", h.SubmitClinicalForm)
	router.POST("/assess/lifestyle", h.SubmitLifestyleForm)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/assessments/clinical", h.AssessClinical)
		v1.POST("/assessments/lifestyle", h.AssessLifestyle)
		v1.GET("/assessments", h.ListAssessments)
		v1.GET("/model", h.ModelInfo)
	}

	return router, nil
}

func readiness(db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	}
}

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// registerValidators teaches gin's binding engine the category tags used by
// the form records, so binding and features.Validate agree.
func registerValidators() error {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		validatorsErr = features.RegisterValidations(v)
	})
	return validatorsErr
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

func setupCORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		return cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:          12 * time.Hour,
		})
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
