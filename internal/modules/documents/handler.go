package documents

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/intentified/web/internal/middleware"
	"github.com/intentified/web/internal/pkg/pagination"
	"github.com/intentified/web/internal/pkg/response"
	"github.com/intentified/web/internal/pkg/storage"
	"go.uber.org/zap"
)

const (
	documentsTemplate = "documents.html"
	emptyStateMessage = "No documents found"
)

// Handler serves the document pages and their JSON variants.
type Handler struct {
	svc       *Service
	presigner storage.Presigner
	debounce  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewHandler builds a Handler. presigner may be nil when no bucket is
// configured; downloads then answer 503.
func NewHandler(svc *Service, presigner storage.Presigner, debounce time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		svc:       svc,
		presigner: presigner,
		debounce:  debounce,
		logger:    logger.Named("DocumentHandler"),
		now:       time.Now,
	}
}

// RegisterRoutes mounts pages on dashboard and JSON endpoints on api.
func (h *Handler) RegisterRoutes(dashboard, api *gin.RouterGroup) {
	dashboard.GET("", h.home)
	dashboard.GET("/documents", h.listPage)
	dashboard.GET("/documents/:id/download", h.download)

	api.GET("/documents", h.list)
	api.GET("/documents/:id", h.get)
}

func (h *Handler) home(c *gin.Context) {
	c.Redirect(http.StatusFound, c.Request.URL.Path+"/documents")
}

func (h *Handler) listPage(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.now()

	data := gin.H{
		"Title":      "Documents",
		"UserID":     middleware.CurrentUserID(c),
		"DebounceMs": h.debounce.Milliseconds(),
		"Empty":      emptyStateMessage,
	}

	bundles, err := h.svc.ListBundles(ctx)
	if err != nil {
		h.logger.Warn("document list unavailable", zap.Error(err))
		bundles = nil
	}
	cards := make([]Card, 0, len(bundles))
	for _, b := range bundles {
		cards = append(cards, NewCard(b, now))
	}
	data["Cards"] = cards

	if id := c.Query("documentId"); id != "" {
		detail, notice := h.drawer(c, id, now)
		data["Detail"] = detail
		data["DrawerNotice"] = notice
	}

	c.HTML(http.StatusOK, documentsTemplate, data)
}

// drawer resolves the detail view selected by ?documentId; a failure
// becomes a notice inside the page.
func (h *Handler) drawer(c *gin.Context, id string, now time.Time) (*Detail, string) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, "Document not found"
	}
	b, err := h.svc.GetBundle(c.Request.Context(), id)
	if errors.Is(err, ErrDocumentNotFound) {
		return nil, "Document not found"
	}
	if err != nil {
		h.logger.Warn("document detail unavailable", zap.String("document_id", id), zap.Error(err))
		return nil, "Document could not be loaded"
	}
	detail := NewDetail(*b, c.Query("tab"), now)
	return &detail, ""
}

func (h *Handler) list(c *gin.Context) {
	bundles, pag, err := h.svc.PageBundles(c.Request.Context(), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, bundles, pag)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.NotFoundMsg(c, ErrDocumentNotFound.Error())
		return
	}
	b, err := h.svc.GetBundle(c.Request.Context(), id)
	if errors.Is(err, ErrDocumentNotFound) {
		response.NotFoundMsg(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, b)
}

func (h *Handler) download(c *gin.Context) {
	if h.presigner == nil {
		response.Abort(c, http.StatusServiceUnavailable, storage.ErrDisabled.Error())
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.NotFound(c)
		return
	}
	doc, err := h.svc.GetDocument(c.Request.Context(), id)
	if errors.Is(err, ErrDocumentNotFound) {
		response.NotFoundMsg(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if doc.FilePath == nil || *doc.FilePath == "" {
		response.NotFoundMsg(c, "original file not available")
		return
	}

	url, err := h.presigner.PresignDownload(c.Request.Context(), *doc.FilePath, downloadName(doc.Title, doc.FileType))
	if err != nil {
		h.logger.Error("presign failed", zap.String("document_id", id), zap.Error(err))
		response.BadGateway(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

func downloadName(title, fileType string) string {
	if title == "" {
		title = "document"
	}
	if fileType == "" {
		return title
	}
	if strings.HasSuffix(strings.ToLower(title), "."+fileType) {
		return title
	}
	return title + "." + fileType
}
