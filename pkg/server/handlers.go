package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tamerhisham/autoboq/internal/run"
	"github.com/tamerhisham/autoboq/pkg/boq"
	"github.com/tamerhisham/autoboq/pkg/common/errors"
	"github.com/tamerhisham/autoboq/pkg/service"
)

func handleError(c *gin.Context, err error) {
	appErr := errors.MapError(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}

// handleModels lists the supported model names.
func (s *Server) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": boq.SupportedModels(), "default": boq.DefaultModel})
}

// handleCatalog returns the fixed extraction phase catalog.
func (s *Server) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modules": s.analysis.Catalog()})
}

// handleStartAnalysis accepts a multipart upload of drawing files plus a
// model selection, and launches a background extraction run.
func (s *Server) handleStartAnalysis(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid multipart form", err))
		return
	}

	model := boq.DefaultModel
	if v := c.PostForm("model"); v != "" {
		model = boq.ModelName(v)
	}

	var files []service.FileInput
	var opened []interface{ Close() error }
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, header := range form.File["files"] {
		f, openErr := header.Open()
		if openErr != nil {
			handleError(c, errors.NewAppError(http.StatusBadRequest, "Unreadable upload", openErr))
			return
		}
		opened = append(opened, f)
		files = append(files, service.FileInput{
			Name:     header.Filename,
			MIMEType: header.Header.Get("Content-Type"),
			Reader:   f,
		})
	}

	view, err := s.analysis.StartAnalysis(model, files)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, view)
}

// handleGetAnalysis returns a run snapshot for polling: status, logs and
// per-module completions.
func (s *Server) handleGetAnalysis(c *gin.Context) {
	view, err := s.analysis.Run(c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleCancelAnalysis(c *gin.Context) {
	view, err := s.analysis.Run(c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	// Only the in-flight run can be cancelled; a finished run id must not
	// abort whichever run is active now.
	if view.Status != run.StatusProcessing || !s.analysis.CancelActive() {
		handleError(c, errors.NewAppError(http.StatusConflict, "No active run to cancel", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": view.ID})
}

// handleItems returns the accumulated BOQ.
func (s *Server) handleItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": s.analysis.Items()})
}

// handleLogs returns the progress log of the latest run.
func (s *Server) handleLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logs": s.analysis.Logs()})
}

// handleSetPrice records a unit price on one BOQ item.
func (s *Server) handleSetPrice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid item id", err))
		return
	}
	var req struct {
		Price float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}
	if err := s.analysis.SetPrice(id, req.Price); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": s.analysis.Items()})
}

// handleChat runs one conversational exchange against the current BOQ.
func (s *Server) handleChat(c *gin.Context) {
	var req struct {
		Model   string `json:"model"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	model := boq.DefaultModel
	if req.Model != "" {
		model = boq.ModelName(req.Model)
	}

	result, err := s.analysis.Chat(c.Request.Context(), model, req.Message)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := gin.H{"response": result.ResponseText, "updated": result.Updated}
	if result.Updated {
		resp["items"] = result.Items
	}
	c.JSON(http.StatusOK, resp)
}
