package rest

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/swaggo/swag"

	"github.com/daniilsolovey/newsfeed/internal/auth"
	"github.com/daniilsolovey/newsfeed/internal/errors"
	"github.com/daniilsolovey/newsfeed/internal/ratelimit"
)

const (
	apiV1Prefix = "/api/v1"

	healthPath    = "/health"
	metricsPath   = "/metrics"
	swaggerPath   = "/swagger/doc.json"
	rpcPath       = "/rpc"
	defaultUpload = "/uploads"
)

// Options carries the collaborators mounted next to the REST API. Nil handlers are not
// mounted.
type Options struct {
	AllowedOrigins []string
	BodyLimit      string

	LoginLimiter *ratelimit.KeyedRateLimiter
	WebSocket    echo.HandlerFunc
	RPC          http.Handler
	Metrics      http.Handler

	UploadsPrefix string
	UploadsDir    string
}

// RegisterRoutes builds the echo instance serving the whole HTTP surface.
func (h *NewsHandler) RegisterRoutes(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler(h.log)

	h.registerMiddleware(e, opts)
	h.registerAPIRoutes(e, opts)
	h.registerServiceRoutes(e, opts)

	return e
}

func (h *NewsHandler) registerMiddleware(e *echo.Echo, opts Options) {
	bodyLimit := opts.BodyLimit
	if bodyLimit == "" {
		bodyLimit = "10M"
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURIPath:  true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			h.log.Info("HTTP request",
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"duration_ms", v.Latency.Milliseconds(),
				"remote_addr", v.RemoteIP,
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: opts.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(bodyLimit))
}

func (h *NewsHandler) registerAPIRoutes(e *echo.Echo, opts Options) {
	api := e.Group(apiV1Prefix)

	login := []echo.MiddlewareFunc{}
	if opts.LoginLimiter != nil {
		login = append(login, ratelimit.Middleware(opts.LoginLimiter, "too many login attempts, try again later"))
	}
	api.POST("/login", h.Login, login...)

	api.GET("/stories", h.Stories)
	api.GET("/stories/:id", h.StoryByID)
	api.GET("/tags", h.Tags)
	api.GET(healthPath, h.Health)

	admin := []echo.MiddlewareFunc{h.gate.RequireAuth(), auth.RequireAdmin()}
	api.POST("/stories", h.CreateStory, admin...)
	api.PUT("/stories/:id", h.UpdateStory, admin...)
	api.DELETE("/stories/:id", h.DeleteStory, admin...)
	api.POST("/tags", h.CreateTag, admin...)
	api.DELETE("/tags/:id", h.DeleteTag, admin...)

	if opts.WebSocket != nil {
		api.GET("/ws", opts.WebSocket)
	}
}

func (h *NewsHandler) registerServiceRoutes(e *echo.Echo, opts Options) {
	e.GET(healthPath, h.Health)
	e.GET(swaggerPath, h.swaggerDoc)

	if opts.Metrics != nil {
		e.GET(metricsPath, echo.WrapHandler(opts.Metrics))
	}
	if opts.RPC != nil {
		e.Any(rpcPath, echo.WrapHandler(opts.RPC))
	}
	if opts.UploadsDir != "" {
		prefix := strings.TrimSuffix(opts.UploadsPrefix, "/")
		if prefix == "" {
			prefix = defaultUpload
		}
		e.Static(prefix, opts.UploadsDir)
	}
}

func (h *NewsHandler) swaggerDoc(c echo.Context) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return errors.NotFound("api documentation is not available")
	}

	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(doc))
}
