// Package api exposes link resolution over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/selimozcann/oglink/internal/model"
)

// Resolver resolves one link.
type Resolver interface {
	Resolve(ctx context.Context, target string) model.Result
}

// ResolveRequest is the JSON body accepted by POST /api/v1/resolve.
type ResolveRequest struct {
	URL string `json:"url" binding:"required"`
}

// ResolveResponse is returned for every resolution, failed or not.
type ResolveResponse struct {
	OriginalURL string `json:"original_url"`
	FinalURL    string `json:"final_url,omitempty"`
	StatusCode  int    `json:"status_code,omitempty"`
	Hops        int    `json:"hops"`
	Error       string `json:"error,omitempty"`
}

// Handlers serves resolution requests.
type Handlers struct {
	resolver Resolver
	log      logrus.FieldLogger
}

// NewHandlers creates the handler set.
func NewHandlers(r Resolver, log logrus.FieldLogger) *Handlers {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handlers{resolver: r, log: log}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health)
		v1.GET("/resolve", h.ResolveQuery)
		v1.POST("/resolve", h.ResolveJSON)
	}
	return router
}

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ResolveQuery handles GET /api/v1/resolve?url=...
func (h *Handlers) ResolveQuery(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}
	h.respond(c, target)
}

// ResolveJSON handles POST /api/v1/resolve with a ResolveRequest body.
func (h *Handlers) ResolveJSON(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload: " + err.Error()})
		return
	}
	h.respond(c, req.URL)
}

// respond always answers 200; resolution failures are reported in the body.
func (h *Handlers) respond(c *gin.Context, target string) {
	res := h.resolver.Resolve(c.Request.Context(), target)
	c.JSON(http.StatusOK, ResolveResponse{
		OriginalURL: target,
		FinalURL:    res.FinalURL,
		StatusCode:  res.Status,
		Hops:        len(res.Chain),
		Error:       res.ErrorText(),
	})
}

func (h *Handlers) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		h.log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}).Info("request")
	}
}
