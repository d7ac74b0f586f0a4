package search

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errSearchFailed = errors.New("search failed")

// Handler exposes search over HTTP and websocket.
type Handler struct {
	svc      Searcher
	debounce time.Duration
	logger   *zap.Logger
}

func NewHandler(svc Searcher, debounce time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, debounce: debounce, logger: logger.Named("SearchHandler")}
}

// RegisterRoutes mounts the JSON endpoint on api and the live socket on
// dashboard. limit guards the JSON endpoint.
func (h *Handler) RegisterRoutes(dashboard, api *gin.RouterGroup, limit gin.HandlerFunc) {
	api.GET("/search", limit, h.search)
	dashboard.GET("/search/live", h.live)
}

func (h *Handler) search(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		c.JSON(http.StatusOK, gin.H{"matches": []Match{}})
		return
	}

	matches, servedBy, err := h.svc.Search(c.Request.Context(), q, c.Query("document_id"))
	if servedBy != "" {
		c.Header("x-served-by", servedBy)
	}
	if err != nil {
		status := http.StatusInternalServerError
		var remoteErr *RemoteError
		if errors.As(err, &remoteErr) {
			status = http.StatusBadGateway
		}
		h.logger.Warn("search failed", zap.String("served_by", servedBy), zap.Error(err))
		c.JSON(status, gin.H{"error": errSearchFailed.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func sameHost(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, host)
}
