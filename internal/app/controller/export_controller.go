package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/mapaddress-backend/internal/app/service"
	apperrors "github.com/ikkim/mapaddress-backend/internal/errors"
	"github.com/ikkim/mapaddress-backend/internal/middleware"
	"github.com/ikkim/mapaddress-backend/pkg/util"
)

type ExportController struct {
	backupService service.BackupService
}

func NewExportController(backupService service.BackupService) *ExportController {
	return &ExportController{backupService: backupService}
}

// Export downloads every address as a spreadsheet
// GET /export
func (ctrl *ExportController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	data, err := ctrl.backupService.Export(c.Request.Context())
	if err != nil {
		log.Error("Failed to export addresses", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export addresses")
		return
	}

	filename := fmt.Sprintf("addresses-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, util.XLSXContentType, data)
}
