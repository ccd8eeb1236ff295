package gin

import (
	"errors"
	"net/http"

	"github.com/fwojciec/harvest"
	"github.com/gin-gonic/gin"
)

// ExtractRequest is the body of POST /v1/extract.
type ExtractRequest struct {
	HTML string `json:"html" binding:"required"`
	URL  string `json:"url"`
}

// ClassifyRequest is the body of POST /v1/classify. It describes a response
// received elsewhere, or with Error set, a fetch that failed before any
// response arrived. Such failures are classified as transport errors of
// kind Other.
type ClassifyRequest struct {
	URL        string            `json:"url"`
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
	Error      string            `json:"error"`
}

// ClassifyResponse is the body returned by POST /v1/classify.
type ClassifyResponse struct {
	Proceed bool               `json:"proceed"`
	Error   *harvest.ItemError `json:"error,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleExtract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, harvest.Errorf(harvest.EINVALID, "invalid request: %v", err))
		return
	}
	c.JSON(http.StatusOK, s.Processor.ProcessHTML(req.HTML, req.URL))
}

func (s *Server) handleClassify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, harvest.Errorf(harvest.EINVALID, "invalid request: %v", err))
		return
	}
	if req.StatusCode == 0 && req.Error == "" {
		respondError(c, harvest.Errorf(harvest.EINVALID, "invalid request: status_code or error is required"))
		return
	}

	header := make(http.Header, len(req.Headers))
	for k, v := range req.Headers {
		header.Set(k, v)
	}
	resp := &harvest.Response{
		URL:        req.URL,
		StatusCode: req.StatusCode,
		Header:     header,
		Body:       req.Body,
	}
	if req.Error != "" {
		resp.Err = errors.New(req.Error)
	}
	v := s.Gate.Classify(resp)
	c.JSON(http.StatusOK, ClassifyResponse{Proceed: v.OK(), Error: v.Blocked})
}

func (s *Server) handleListRuns(c *gin.Context) {
	var query struct {
		Profile string `form:"profile"`
		Limit   int    `form:"limit"`
		Offset  int    `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, harvest.Errorf(harvest.EINVALID, "invalid query: %v", err))
		return
	}

	filter := harvest.RunFilter{Limit: query.Limit, Offset: query.Offset}
	if query.Profile != "" {
		filter.Profile = &query.Profile
	}
	runs, err := s.RunService.FindRuns(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, err := s.RunService.FindRunByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}
