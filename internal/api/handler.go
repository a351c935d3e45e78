package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bluscan/internal/attendance"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// Handler serves the versioned attendance endpoints. One handler covers
// every API version; the per-version behavior lives in the schema
// descriptor passed to each route.
type Handler struct {
	repo *attendance.Repository
}

// NewHandler creates a handler over the record store.
func NewHandler(repo *attendance.Repository) *Handler {
	return &Handler{repo: repo}
}

// Register mounts one route group per registered schema version, so
// /api/v2/... appears automatically once the v2 schema is declared.
func (h *Handler) Register(r *gin.Engine) {
	for _, version := range attendance.Versions() {
		schema, ok := attendance.SchemaFor(version)
		if !ok {
			continue
		}
		g := r.Group(fmt.Sprintf("/api/v%d/attendance", version))
		g.POST("/", h.create(schema))
		g.GET("/", h.list(schema))
		g.GET("/:id", h.get(schema))
		g.DELETE("/:id", h.remove(schema))
	}
}

func versionLabel(s attendance.Schema) string {
	return fmt.Sprintf("v%d", s.Version)
}

func (h *Handler) create(schema attendance.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload map[string]any
		if err := c.ShouldBindJSON(&payload); err != nil {
			// An undecodable body gets the same response class as a
			// failed validation.
			validationFailures.WithLabelValues(versionLabel(schema)).Inc()
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "request body must be a JSON object"})
			return
		}
		cand, verr := schema.Validate(payload)
		if verr != nil {
			validationFailures.WithLabelValues(versionLabel(schema)).Inc()
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Fields})
			return
		}
		rec, err := h.repo.Insert(c.Request.Context(), cand)
		if err != nil {
			log.Printf("insert attendance record failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store attendance record"})
			return
		}
		recordsStored.WithLabelValues(versionLabel(schema)).Inc()
		log.Printf("attendance stored: id=%d student_id=%s", rec.ID, rec.StudentID)
		c.JSON(http.StatusCreated, gin.H{"message": "attendance record stored successfully"})
	}
}

func (h *Handler) list(schema attendance.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Pointers distinguish an absent parameter from an explicit 0:
		// a missing limit means the default, limit=0 is a caller error.
		var q struct {
			Skip      *int   `form:"skip"`
			Limit     *int   `form:"limit"`
			StudentID string `form:"student_id"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid query parameters"})
			return
		}
		skip, limit := 0, defaultListLimit
		if q.Skip != nil {
			skip = *q.Skip
		}
		if q.Limit != nil {
			limit = *q.Limit
		}
		var fields []attendance.FieldError
		if skip < 0 {
			fields = append(fields, attendance.FieldError{Field: "skip", Message: "must be zero or greater"})
		}
		if limit < 1 || limit > maxListLimit {
			fields = append(fields, attendance.FieldError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", maxListLimit)})
		}
		if len(fields) > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fields})
			return
		}

		total, records, err := h.repo.List(c.Request.Context(), attendance.ListFilter{StudentID: q.StudentID}, skip, limit)
		if err != nil {
			log.Printf("list attendance records failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attendance records"})
			return
		}
		out := make([]map[string]any, len(records))
		for i, rec := range records {
			out[i] = schema.Project(rec)
		}
		c.JSON(http.StatusOK, gin.H{"total": total, "records": out})
	}
}

func (h *Handler) get(schema attendance.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		rec, err := h.repo.Get(c.Request.Context(), id)
		if errors.Is(err, attendance.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("attendance record with id %d not found", id)})
			return
		}
		if err != nil {
			log.Printf("get attendance record failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attendance record"})
			return
		}
		c.JSON(http.StatusOK, schema.Project(rec))
	}
}

func (h *Handler) remove(schema attendance.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		deleted, err := h.repo.Delete(c.Request.Context(), id)
		if err != nil {
			log.Printf("delete attendance record failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete attendance record"})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("attendance record with id %d not found", id)})
			return
		}
		recordsDeleted.WithLabelValues(versionLabel(schema)).Inc()
		log.Printf("attendance deleted: id=%d", id)
		c.JSON(http.StatusOK, gin.H{"message": "attendance record deleted successfully"})
	}
}

// idParam parses the :id path segment. A non-integer id is a validation
// failure, same as a bad body field.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"fields": []attendance.FieldError{{Field: "id", Message: "must be an integer"}},
		})
		return 0, false
	}
	return id, true
}
