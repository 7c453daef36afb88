// Package server exposes the extraction pipeline over REST. Rendering, CSV
// export and the chat UI live client-side; these endpoints carry data only.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tamerhisham/autoboq/pkg/service"
)

// Server holds the state for the REST API server.
type Server struct {
	analysis *service.AnalysisService
	router   *gin.Engine
}

// NewServer creates a new Server instance.
func NewServer(analysis *service.AnalysisService) *Server {
	r := gin.Default()
	s := &Server{
		analysis: analysis,
		router:   r,
	}
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/v1/models", s.handleModels)
	s.router.GET("/v1/catalog", s.handleCatalog)
	s.router.POST("/v1/analyses", s.handleStartAnalysis)
	s.router.GET("/v1/analyses/:id", s.handleGetAnalysis)
	s.router.POST("/v1/analyses/:id/cancel", s.handleCancelAnalysis)
	s.router.GET("/v1/boq", s.handleItems)
	s.router.GET("/v1/logs", s.handleLogs)
	s.router.POST("/v1/boq/:id/price", s.handleSetPrice)
	s.router.POST("/v1/chat", s.handleChat)
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}
