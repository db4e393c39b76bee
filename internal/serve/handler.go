package serve

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"demtracker/internal/dataset"
	"demtracker/internal/history"
	"demtracker/internal/validate"
)

// Handler exposes the dataset read-only over HTTP for local preview before
// publication. DB may be nil; the /runs route is only registered when the
// history store is available.
type Handler struct {
	Repo      *Repo
	Validator *validate.Validator
	JSONPath  string
	DB        *sql.DB
}

func NewHandler(repo *Repo, v *validate.Validator, jsonPath string, db *sql.DB) *Handler {
	return &Handler{Repo: repo, Validator: v, JSONPath: jsonPath, DB: db}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/countries", h.list)
	r.GET("/countries/:name", h.getByName)
	r.GET("/validate", h.validateDataset)
	if h.DB != nil {
		r.GET("/runs", h.listRuns)
	}
}

func (h *Handler) list(c *gin.Context) {
	items := h.Repo.List(ListQuery{
		Q:      c.Query("q"),
		Region: c.Query("region"),
		Status: c.Query("status"),
	})
	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (h *Handler) getByName(c *gin.Context) {
	country := h.Repo.GetByName(c.Param("name"))
	if country == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, country)
}

// validateDataset re-reads the file on every call so the endpoint reflects
// edits made since the server started.
func (h *Handler) validateDataset(c *gin.Context) {
	raw, err := dataset.LoadRaw(h.JSONPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	findings := h.Validator.Validate(raw)
	c.JSON(http.StatusOK, gin.H{
		"count":    len(findings),
		"findings": findings,
	})
}

func (h *Handler) listRuns(c *gin.Context) {
	limit := parseInt(c.Query("limit"), 20)
	runs, err := history.RecentRuns(c.Request.Context(), h.DB, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	type runItem struct {
		ID        string `json:"id"`
		Tool      string `json:"tool"`
		Source    string `json:"source"`
		Year      int    `json:"year,omitempty"`
		Updated   int    `json:"updated"`
		CreatedAt string `json:"created_at"`
	}
	items := make([]runItem, 0, len(runs))
	for _, r := range runs {
		items = append(items, runItem{
			ID:        r.ID,
			Tool:      r.Tool,
			Source:    r.Source,
			Year:      r.Year,
			Updated:   r.Updated,
			CreatedAt: r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"total": len(items), "items": items})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
