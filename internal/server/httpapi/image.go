package httpapi

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type imageResponse struct {
	ID           int64     `json:"id"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"createdAt"`
}

// handleUploadImage accepts a multipart upload under the "file" field,
// hands it to the image pipeline and returns the stored metadata.
func (s *Server) handleUploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer f.Close()

	// read one byte past the limit so the service can reject oversized input
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		s.writeError(c, err)
		return
	}

	image, err := s.images.Upload(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, imageResponse{
		ID:           image.ID,
		OriginalName: image.OriginalName,
		Size:         image.Size,
		CreatedAt:    image.CreatedAt,
	})
}

// handleGetImage redirects to a short-lived presigned URL for the blob.
func (s *Server) handleGetImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	url, err := s.images.GetURL(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

func (s *Server) handleDeleteImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := s.images.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
