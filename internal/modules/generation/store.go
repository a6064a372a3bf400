package generation

import (
	"errors"

	"github.com/inkwell-app/core/internal/models"
	"gorm.io/gorm"
)

// docStore is the persistence surface the orchestrator needs. Terminal
// transitions are status-guarded; the first terminal write wins and later
// ones report false.
type docStore interface {
	Create(doc *models.DocumentModel) error
	Get(id string) (*models.DocumentModel, error)
	MarkProcessing(id string, chapterTotal int) (bool, error)
	SetProgress(id string, chapterCount int) error
	FinishCompleted(id, fileURL, fileKey string, fileSize int64) (bool, error)
	FinishFailed(id, errMsg string) (bool, error)
	FinishCancelled(id string) (bool, error)
}

type gormDocStore struct {
	db *gorm.DB
}

func newGormDocStore(db *gorm.DB) *gormDocStore { return &gormDocStore{db: db} }

func (s *gormDocStore) Create(doc *models.DocumentModel) error {
	return s.db.Create(doc).Error
}

func (s *gormDocStore) Get(id string) (*models.DocumentModel, error) {
	var doc models.DocumentModel
	if err := s.db.First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (s *gormDocStore) MarkProcessing(id string, chapterTotal int) (bool, error) {
	res := s.db.Model(&models.DocumentModel{}).
		Where("id = ? AND generation_status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"generation_status": models.StatusProcessing,
			"chapter_total":     chapterTotal,
		})
	return res.RowsAffected > 0, res.Error
}

func (s *gormDocStore) SetProgress(id string, chapterCount int) error {
	return s.db.Model(&models.DocumentModel{}).
		Where("id = ? AND generation_status = ?", id, models.StatusProcessing).
		Update("chapter_count", chapterCount).Error
}

func (s *gormDocStore) FinishCompleted(id, fileURL, fileKey string, fileSize int64) (bool, error) {
	res := s.db.Model(&models.DocumentModel{}).
		Where("id = ? AND generation_status = ?", id, models.StatusProcessing).
		Updates(map[string]interface{}{
			"generation_status": models.StatusCompleted,
			"file_url":          fileURL,
			"file_key":          fileKey,
			"file_size":         fileSize,
		})
	return res.RowsAffected > 0, res.Error
}

func (s *gormDocStore) FinishFailed(id, errMsg string) (bool, error) {
	res := s.db.Model(&models.DocumentModel{}).
		Where("id = ? AND generation_status IN ?", id, []string{models.StatusPending, models.StatusProcessing}).
		Updates(map[string]interface{}{
			"generation_status": models.StatusFailed,
			"error":             errMsg,
		})
	return res.RowsAffected > 0, res.Error
}

func (s *gormDocStore) FinishCancelled(id string) (bool, error) {
	res := s.db.Model(&models.DocumentModel{}).
		Where("id = ? AND generation_status IN ?", id, []string{models.StatusPending, models.StatusProcessing}).
		Update("generation_status", models.StatusCancelled)
	return res.RowsAffected > 0, res.Error
}
