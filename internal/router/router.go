package router

import (
	"html/template"
	"io/fs"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/config"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/handlers"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/web"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Try again later."})
}

// Setup wires middleware, templates, assets and routes into a gin engine.
func Setup(log *zap.Logger, dashboard *handlers.DashboardHandler, api *handlers.APIHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("stresswatch", store))

	router.Use(CSRFProtection())

	router.Use(func(c *gin.Context) {
		c.Header("Content-Security-Policy",
			"script-src 'self' https://cdn.jsdelivr.net; style-src 'self'; img-src 'self' data:")
		c.Next()
	})

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	// Embedded templates and static assets.
	tmpl := template.Must(template.ParseFS(web.FS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	staticFS, err := fs.Sub(web.FS, "static")
	if err != nil {
		log.Fatal("Failed to mount embedded static assets", zap.Error(err))
	}
	router.StaticFS("/assets", http.FS(staticFS))

	// The two mutating endpoints fan out to the backend; keep them from
	// being hammered.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitErrorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/", dashboard.Show)
	router.GET("/api/charts", dashboard.Charts)
	router.GET("/api/history", api.History)
	router.POST("/api/simulate", limiter, api.Simulate)
	router.POST("/api/feedback", limiter, api.Feedback)

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
