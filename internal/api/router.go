package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"portfolio-contact/internal/logging"
)

// RouterConfig carries what NewRouter wires together. Gatherer and DB are
// optional.
type RouterConfig struct {
	AllowedOrigin string
	AdminToken    string
	Logger        zerolog.Logger

	Contact     *ContactHandler
	I18n        *I18nHandler
	Submissions *SubmissionsHandler
	Gatherer    prometheus.Gatherer
	DB          *gorm.DB
}

func NewRouter(rc RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(rc.Logger), CORS(rc.AllowedOrigin))

	r.GET("/healthz", health(rc.DB))
	if rc.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(rc.Gatherer, promhttp.HandlerOpts{})))
	}

	apiGroup := r.Group("/api")
	{
		contactGroup := apiGroup.Group("/contact")
		{
			contactGroup.GET("", rc.Contact.GetState)
			contactGroup.POST("/change", rc.Contact.Change)
			contactGroup.POST("/blur", rc.Contact.Blur)
			contactGroup.POST("/submit", rc.Contact.Submit)
			contactGroup.GET("/ws", rc.Contact.Stream)
		}

		apiGroup.GET("/i18n/:lang", rc.I18n.GetCatalog)

		if rc.Submissions != nil {
			adminGroup := apiGroup.Group("/admin", AdminAuth(rc.AdminToken))
			{
				adminGroup.GET("/submissions", rc.Submissions.GetSubmissions)
				adminGroup.GET("/submissions/export", rc.Submissions.ExportSubmissions)
				adminGroup.DELETE("/submissions/:id", rc.Submissions.DeleteSubmission)
			}
		}
	}

	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
