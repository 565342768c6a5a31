package share

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Multipart framing overhead allowed on top of the file ceiling before the
// request body is rejected outright.
const multipartOverhead = 1 << 20

// RegisterRoutes mounts the upload and retrieval endpoints.
func RegisterRoutes(router *gin.Engine, service *Service, baseURL string, maxUploadSize int64) {
	handler := &httpHandler{
		service:       service,
		baseURL:       baseURL,
		maxUploadSize: maxUploadSize,
	}
	router.POST("/api/files", handler.uploadFile)
	router.GET("/files/:uuid", handler.downloadFile)
}

type httpHandler struct {
	service       *Service
	baseURL       string
	maxUploadSize int64
}

func (h *httpHandler) uploadFile(c *gin.Context) {
	// Authoritative body cap; the client-side check is UX only.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+multipartOverhead)

	form, err := c.MultipartForm()
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	files := form.File["file"]
	switch {
	case len(files) == 0:
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	case len(files) > 1:
		c.JSON(http.StatusBadRequest, gin.H{"error": "You can't upload multiple files"})
		return
	}

	rec, err := h.service.Upload(c.Request.Context(), files[0])
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		case errors.Is(err, ErrMissingFile), errors.Is(err, ErrEmptyFile):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		case errors.Is(err, ErrStorageUnavailable):
			zap.L().Error("blob store rejected upload", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		default:
			zap.L().Error("upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload file"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file": RetrievalURL(h.baseURL, rec.UUID),
		"uuid": rec.UUID.String(),
	})
}

func (h *httpHandler) downloadFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		// Malformed tokens were never issued; same outcome as unknown ones.
		c.JSON(http.StatusNotFound, gin.H{"error": "Link has expired"})
		return
	}

	rec, reader, err := h.service.Resolve(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Link has expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not download file."})
		}
		return
	}

	if rec.StorageKind == StorageDurableBlob {
		c.Redirect(http.StatusFound, rec.LocationRef)
		return
	}

	defer reader.Close()

	c.Header("Content-Type", rec.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.OriginalName))
	c.Header("Content-Length", fmt.Sprintf("%d", rec.SizeBytes))

	if _, err := io.Copy(c.Writer, reader); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
}

// RetrievalURL builds the public link for a record identifier.
func RetrievalURL(baseURL string, id uuid.UUID) string {
	return fmt.Sprintf("%s/files/%s", baseURL, id.String())
}
