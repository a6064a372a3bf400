package document

import (
	"errors"

	"github.com/inkwell-app/core/internal/models"
	"github.com/inkwell-app/core/internal/pkg/pagination"
	"github.com/inkwell-app/core/internal/pkg/response"
	"gorm.io/gorm"
)

// docRepo is the persistence surface behind the document service. Missing
// rows come back as (nil, nil).
type docRepo interface {
	List(userID string, q pagination.Query) ([]models.DocumentModel, response.Pagination, error)
	Get(id string) (*models.DocumentModel, error)
	Delete(id string) error
	SetShare(id, token string) error
	ClearShare(id string) error
	FindShared(token string) (*models.DocumentModel, error)
}

type gormDocRepo struct {
	db *gorm.DB
}

func newGormDocRepo(db *gorm.DB) *gormDocRepo { return &gormDocRepo{db: db} }

func (r *gormDocRepo) List(userID string, q pagination.Query) ([]models.DocumentModel, response.Pagination, error) {
	query := r.db.Model(&models.DocumentModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	var docs []models.DocumentModel
	page, err := pagination.Paginate(query, q, &docs)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return docs, page, nil
}

func (r *gormDocRepo) Get(id string) (*models.DocumentModel, error) {
	var doc models.DocumentModel
	if err := r.db.First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *gormDocRepo) Delete(id string) error {
	return r.db.Delete(&models.DocumentModel{}, "id = ?", id).Error
}

func (r *gormDocRepo) SetShare(id, token string) error {
	return r.db.Model(&models.DocumentModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"share_token": token,
			"is_public":   true,
		}).Error
}

func (r *gormDocRepo) ClearShare(id string) error {
	return r.db.Model(&models.DocumentModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"share_token": nil,
			"is_public":   false,
		}).Error
}

func (r *gormDocRepo) FindShared(token string) (*models.DocumentModel, error) {
	var doc models.DocumentModel
	err := r.db.First(&doc, "share_token = ? AND is_public = ?", token, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}
