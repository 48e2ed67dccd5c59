package database

import (
	"context"

	"gorm.io/gorm"

	"portfolio-contact/internal/contact"
	"portfolio-contact/internal/models"
)

// SubmissionRepository stores settled contact attempts.
type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Record implements contact.Recorder.
func (r *SubmissionRepository) Record(ctx context.Context, a contact.Attempt) error {
	row := models.Submission{
		SessionID:    a.SessionID,
		Locale:       a.Locale,
		Name:         a.Payload.Name,
		Email:        a.Payload.Email,
		Message:      a.Payload.Message,
		Status:       string(a.Status),
		Failure:      string(a.Failure),
		RelayMessage: a.RelayMessage,
		DurationMS:   a.Duration.Milliseconds(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

// List returns submissions newest first with the total matching count.
func (r *SubmissionRepository) List(ctx context.Context, f ListFilter) ([]models.Submission, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Submission{})
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	submissions := []models.Submission{}
	err := scope().Order("created_at DESC, id DESC").Limit(limit).Offset(f.Offset).Find(&submissions).Error
	if err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}

// Each streams every submission in primary key order, in batches.
func (r *SubmissionRepository) Each(ctx context.Context, fn func(models.Submission) error) error {
	var batch []models.Submission
	return r.db.WithContext(ctx).FindInBatches(&batch, 100, func(tx *gorm.DB, _ int) error {
		for _, s := range batch {
			if err := fn(s); err != nil {
				return err
			}
		}
		return nil
	}).Error
}

// Delete removes a submission. found is false when no row matched.
func (r *SubmissionRepository) Delete(ctx context.Context, id uint) (found bool, err error) {
	res := r.db.WithContext(ctx).Delete(&models.Submission{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
