package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/leads/management"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/transport"
	"github.com/covenantOS/serviceline-dashboard/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Export writes all matching leads as a downloadable CSV or JSON file.
// The body is buffered before any status is written.
func (h *Handler) Export(c *gin.Context) {
	var req transport.ExportLeadsRequest
	if !h.bindQuery(c, &req) {
		return
	}
	if req.Format == "" {
		req.Format = management.ExportFormatCSV
	}

	var buf bytes.Buffer
	if err := h.svc.Export(c.Request.Context(), req, &buf); httpkit.HandleError(c, err) {
		return
	}

	contentType := "text/csv"
	if req.Format == management.ExportFormatJSON {
		contentType = "application/json"
	}
	filename := fmt.Sprintf("leads-%s.%s", time.Now().UTC().Format("20060102"), req.Format)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
