package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/bloom-backend/internal/content"
	httpH "github.com/yungbote/bloom-backend/internal/http/handlers"
	httpMW "github.com/yungbote/bloom-backend/internal/http/middleware"
	"github.com/yungbote/bloom-backend/internal/observability"
	"github.com/yungbote/bloom-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	HealthHandler    *httpH.HealthHandler
	PregnancyHandler *httpH.PregnancyHandler
	ProfileHandler   *httpH.ProfileHandler
	JournalHandler   *httpH.JournalHandler
	ContentHandler   *httpH.ContentHandler
	NarrationHandler *httpH.NarrationHandler
	RelaxHandler     *httpH.RelaxHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.PregnancyHandler != nil {
			api.GET("/week", cfg.PregnancyHandler.Week)
			api.GET("/milestones", cfg.PregnancyHandler.ListMilestones)
			api.GET("/milestones/:week", cfg.PregnancyHandler.GetMilestone)
		}

		if cfg.ProfileHandler != nil {
			api.GET("/profile", cfg.ProfileHandler.Get)
			api.PUT("/profile", cfg.ProfileHandler.Update)
			api.PUT("/screen", cfg.ProfileHandler.SetScreen)
		}

		if cfg.JournalHandler != nil {
			api.GET("/logs", cfg.JournalHandler.List)
			api.POST("/logs", cfg.JournalHandler.Create)
			api.GET("/calendar", cfg.JournalHandler.Calendar)
		}

		// Generated content
		if cfg.ContentHandler != nil {
			api.GET("/dashboard", cfg.ContentHandler.Dashboard)
			api.POST("/dashboard/refresh", cfg.ContentHandler.RefreshDashboard)
			api.GET("/tip", cfg.ContentHandler.GetTip)
			api.POST("/tip", cfg.ContentHandler.RequestTip)
			api.POST("/tip/displayed", cfg.ContentHandler.MarkDisplayed(content.KindTip))
			api.GET("/story", cfg.ContentHandler.GetStory)
			api.POST("/story", cfg.ContentHandler.RequestStory)
			api.POST("/story/displayed", cfg.ContentHandler.MarkDisplayed(content.KindStory))
			api.GET("/image", cfg.ContentHandler.GetImage)
			api.POST("/image", cfg.ContentHandler.RequestImage)
			api.POST("/image/displayed", cfg.ContentHandler.MarkDisplayed(content.KindImage))
		}

		if cfg.NarrationHandler != nil {
			api.GET("/narration", cfg.NarrationHandler.Current)
			api.POST("/narration", cfg.NarrationHandler.Play)
			api.DELETE("/narration", cfg.NarrationHandler.Stop)
		}

		if cfg.RelaxHandler != nil {
			api.GET("/relax/breathing", cfg.RelaxHandler.Breathing)
			api.GET("/relax/memory", cfg.RelaxHandler.GetMemory)
			api.POST("/relax/memory", cfg.RelaxHandler.NewMemory)
			api.POST("/relax/memory/flip", cfg.RelaxHandler.Flip)
			api.POST("/relax/memory/settle", cfg.RelaxHandler.Settle)
		}
	}

	return r
}
