package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"localpm/internal/handler"
)

// MQStatus reports whether the event publisher still has a live broker
// connection. Satisfied by mq.Publisher.
type MQStatus interface {
	IsConnected() bool
}

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	projectHandler *handler.ProjectHandler,
	teamHandler *handler.TeamHandler,
	ticketHandler *handler.TicketHandler,
	boardHandler *handler.BoardHandler,
	pool *pgxpool.Pool,
	mqStatus MQStatus,
	log *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(LoggingMiddleware(log))
	r.Use(MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		resp := gin.H{"status": "ready"}
		// Events are fire and forget, so a dead broker degrades readiness
		// info without failing the check.
		if mqStatus != nil {
			resp["mq"] = mqStatus.IsConnected()
		}
		c.JSON(http.StatusOK, resp)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		projectHandler.Register(api.Group("/projects"))
		teamHandler.Register(api.Group("/teams"))
		ticketHandler.Register(api.Group("/tickets"))
		boardHandler.Register(api.Group("/board"))
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
