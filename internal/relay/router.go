package relay

import (
	"github.com/gin-gonic/gin"

	"ticketera/internal/config"
)

// NewRouter wires the relay's middleware chain and routes onto a Gin engine.
func NewRouter(cfg *config.Config) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(RequestID())
	r.Use(Logger())
	r.Use(Recovery())
	r.Use(CORS())

	printer := NewNetworkPrinter(cfg.PrinterAddress, cfg.PrinterPort)
	breaker := NewBreaker(DefaultBreakerConfig())
	jobs := NewJobLog(cfg.JobLogSize)
	h := NewHandler(printer, breaker, jobs, cfg.Subnets())

	r.POST("/", h.Print)
	r.GET("/health", h.Health)
	r.GET("/printers", h.ListPrinters)
	r.POST("/printers/test", h.TestPrint)
	r.GET("/jobs", h.ListJobs)

	return r
}
