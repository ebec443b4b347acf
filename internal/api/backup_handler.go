package api

import (
	"alcyxob/fitplan/internal/service"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// maxBackupSize caps uploaded backups; logos and thumbnails are inlined as base64.
const maxBackupSize = 64 << 20

type BackupHandler struct {
	backupService service.BackupService
}

func NewBackupHandler(backupService service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// ExportBackup godoc
// @Summary Download a full backup
// @Description Every workout, client and the coach profile as one JSON document.
// @Tags Backup
// @Produce json
// @Success 200 {file} file "backup-YYYY-MM-DD.json"
// @Router /backup [get]
func (h *BackupHandler) ExportBackup(c *gin.Context) {
	file, err := h.backupService.Export(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err, "Failed to export backup.")
		return
	}
	setAttachment(c, file.Filename)
	if file.ArchiveURL != "" {
		c.Header("X-Archive-URL", file.ArchiveURL)
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", file.Data)
}

// ImportBackup godoc
// @Summary Restore a backup
// @Description Replaces ALL stored data. Accepts the JSON document as the body or as a multipart "file" field.
// @Tags Backup
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} service.ImportSummary
// @Failure 400 {object} gin.H "Invalid backup format"
// @Router /backup [post]
func (h *BackupHandler) ImportBackup(c *gin.Context) {
	data, err := readBackupBody(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Could not read backup: %v", err))
		return
	}
	summary, err := h.backupService.Import(c.Request.Context(), data)
	if err != nil {
		abortWithServiceError(c, err, "Failed to import backup.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func readBackupBody(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBackupSize)
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return io.ReadAll(c.Request.Body)
	}
	header, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// BackupStats godoc
// @Summary Backup screen counters
// @Tags Backup
// @Produce json
// @Success 200 {object} backup.Stats
// @Router /backup/stats [get]
func (h *BackupHandler) BackupStats(c *gin.Context) {
	stats, err := h.backupService.Stats(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err, "Failed to read backup stats.")
		return
	}
	c.JSON(http.StatusOK, stats)
}
