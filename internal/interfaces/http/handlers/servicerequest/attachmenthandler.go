package servicerequest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"srdashboard/internal/shared/constants"
	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
	"srdashboard/internal/shared/utils"
)

// AttachmentOpener streams stored attachments by public path.
type AttachmentOpener interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

type AttachmentHandler struct {
	opener AttachmentOpener
	logger logger.Interface
}

func NewAttachmentHandler(opener AttachmentOpener, logger logger.Interface) *AttachmentHandler {
	return &AttachmentHandler{opener: opener, logger: logger}
}

// Download handles GET /uploads/*name
func (h *AttachmentHandler) Download(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("name"), "/")
	if name == "" || strings.ContainsAny(name, `/\`) {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("File not found"))
		return
	}

	rc, err := h.opener.Open(c.Request.Context(), constants.UploadsURLPrefix+name)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	defer rc.Close()

	// Sniff from a peeked prefix so the full body still streams.
	br := bufio.NewReaderSize(rc, 3072)
	head, _ := br.Peek(3072)
	contentType := mimetype.Detect(head).String()

	c.DataFromReader(http.StatusOK, -1, contentType, br, map[string]string{
		"Content-Disposition":    fmt.Sprintf("inline; filename=%q", name),
		"X-Content-Type-Options": "nosniff",
	})
}
