package handlers

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/services"
	"github.com/hanbit-dev/showcase-backend/internal/storage"
)

type ContentHandler struct {
	log            *logger.Logger
	contentService services.ContentService
}

func NewContentHandler(baseLog *logger.Logger, contentService services.ContentService) *ContentHandler {
	return &ContentHandler{
		log:            baseLog.With("handler", "ContentHandler"),
		contentService: contentService,
	}
}

// GET /api/admin/content?type=portfolio
func (h *ContentHandler) List(c *gin.Context) {
	items, err := h.contentService.ListAdmin(c.Request.Context(), tenantID(c), c.Query("type"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"items": items})
}

// GET /api/admin/content/:id
func (h *ContentHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	detail, err := h.contentService.GetByID(c.Request.Context(), tenantID(c), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	if detail == nil {
		RespondError(c, apierr.NotFound("content %d not found", id))
		return
	}
	RespondOK(c, detail)
}

// openUpload turns a multipart file header into a storage.FileUpload. The
// returned closer must run after the service call finishes with the file.
func openUpload(fh *multipart.FileHeader) (*storage.FileUpload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &storage.FileUpload{
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get("Content-Type"),
		Size:         fh.Size,
		Reader:       f,
	}, func() { f.Close() }, nil
}

// contentFilesFromForm collects the thumbnail and attachments parts of the
// multipart form.
func contentFilesFromForm(c *gin.Context) (services.ContentFiles, func(), error) {
	var files services.ContentFiles
	var closers []func()
	closeAll := func() {
		for _, fn := range closers {
			fn()
		}
	}

	if fh, err := c.FormFile("thumbnail"); err == nil && fh != nil {
		upload, closer, err := openUpload(fh)
		if err != nil {
			closeAll()
			return files, nil, err
		}
		closers = append(closers, closer)
		files.Thumbnail = upload
	}

	form, err := c.MultipartForm()
	if err == nil && form != nil {
		for _, fh := range form.File["attachments"] {
			upload, closer, err := openUpload(fh)
			if err != nil {
				closeAll()
				return files, nil, err
			}
			closers = append(closers, closer)
			files.Attachments = append(files.Attachments, *upload)
		}
	}
	return files, closeAll, nil
}

func contentInputFromForm(c *gin.Context) services.ContentInput {
	return services.ContentInput{
		Type:       c.PostForm("type"),
		Title:      c.PostForm("title"),
		Summary:    c.PostForm("summary"),
		Body:       c.PostForm("body"),
		Status:     c.PostForm("status"),
		BlocksJSON: c.PostForm("blocks"),
	}
}

// POST /api/admin/content  (multipart: fields + thumbnail + attachments)
func (h *ContentHandler) Create(c *gin.Context) {
	files, closeFiles, err := contentFilesFromForm(c)
	if err != nil {
		RespondError(c, apierr.Validation("could not read uploaded files"))
		return
	}
	defer closeFiles()

	detail, err := h.contentService.Create(c.Request.Context(), tenantID(c), contentInputFromForm(c), files)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, detail)
}

// PUT /api/admin/content/:id
func (h *ContentHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	files, closeFiles, err := contentFilesFromForm(c)
	if err != nil {
		RespondError(c, apierr.Validation("could not read uploaded files"))
		return
	}
	defer closeFiles()

	detail, err := h.contentService.Update(c.Request.Context(), tenantID(c), id, contentInputFromForm(c), files)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, detail)
}

// DELETE /api/admin/content/:id
func (h *ContentHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	if err := h.contentService.Delete(c.Request.Context(), tenantID(c), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

// GET /api/admin/media
func (h *ContentHandler) ListMedia(c *gin.Context) {
	assets, err := h.contentService.ListMediaLibrary(c.Request.Context(), tenantID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"assets": assets})
}

// DELETE /api/admin/content/:id/media/:mediaId
func (h *ContentHandler) RemoveMedia(c *gin.Context) {
	contentID, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	mediaID, err := parseIDParam(c, "mediaId")
	if err != nil {
		RespondError(c, err)
		return
	}
	if err := h.contentService.RemoveMedia(c.Request.Context(), tenantID(c), contentID, mediaID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": true})
}
