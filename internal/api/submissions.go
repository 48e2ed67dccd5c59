package api

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"portfolio-contact/internal/database"
	dbmodels "portfolio-contact/internal/models"
	"portfolio-contact/pkg/models"
)

type SubmissionsHandler struct {
	Repo *database.SubmissionRepository
}

func NewSubmissionsHandler(repo *database.SubmissionRepository) *SubmissionsHandler {
	return &SubmissionsHandler{Repo: repo}
}

func (h *SubmissionsHandler) GetSubmissions(c *gin.Context) {
	var q models.SubmissionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, total, err := h.Repo.List(c.Request.Context(), database.ListFilter{
		Status: q.Status,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]models.SubmissionView, 0, len(rows))
	for _, s := range rows {
		items = append(items, view(s))
	}
	limit := q.Limit
	if limit == 0 {
		limit = 50
	}
	c.JSON(http.StatusOK, models.SubmissionList{Items: items, Total: total, Limit: limit, Offset: q.Offset})
}

func (h *SubmissionsHandler) ExportSubmissions(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=submissions.csv")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"ID", "Created At", "Locale", "Name", "Email", "Message", "Status", "Failure", "Relay Message", "Duration (ms)"})
	err := h.Repo.Each(c.Request.Context(), func(s dbmodels.Submission) error {
		return w.Write([]string{
			strconv.FormatUint(uint64(s.ID), 10),
			s.CreatedAt.UTC().Format(time.RFC3339),
			s.Locale,
			s.Name,
			s.Email,
			s.Message,
			s.Status,
			s.Failure,
			s.RelayMessage,
			strconv.FormatInt(s.DurationMS, 10),
		})
	})
	w.Flush()
	if err == nil {
		err = w.Error()
	}
	if err != nil {
		// Headers are already out; the export is cut short.
		log.Error().Err(err).Msg("submission export failed")
		_ = c.Error(err)
	}
}

func (h *SubmissionsHandler) DeleteSubmission(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	found, err := h.Repo.Delete(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete submission"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Submission deleted"})
}

func view(s dbmodels.Submission) models.SubmissionView {
	return models.SubmissionView{
		ID:           s.ID,
		SessionID:    s.SessionID,
		Locale:       s.Locale,
		Name:         s.Name,
		Email:        s.Email,
		Message:      s.Message,
		Status:       s.Status,
		Failure:      s.Failure,
		RelayMessage: s.RelayMessage,
		DurationMS:   s.DurationMS,
		CreatedAt:    s.CreatedAt,
	}
}
