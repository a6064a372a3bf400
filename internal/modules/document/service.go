package document

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/inkwell-app/core/internal/models"
	"github.com/inkwell-app/core/internal/modules/storage/object"
	"github.com/inkwell-app/core/internal/pkg/pagination"
	"github.com/inkwell-app/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrForbidden    = errors.New("not the document owner")
	ErrNotCompleted = errors.New("document generation is not completed")
)

const shareTokenBytes = 24

// Service owns document listing, deletion and sharing.
type Service struct {
	repo          docRepo
	store         object.Store
	log           *zap.Logger
	publicBaseURL string
}

func NewService(db *gorm.DB, store object.Store, log *zap.Logger, publicBaseURL string) *Service {
	return &Service{
		repo:          newGormDocRepo(db),
		store:         store,
		log:           log.Named("document"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// List returns the user's documents, newest first.
func (s *Service) List(userID string, q pagination.Query) ([]models.DocumentModel, response.Pagination, error) {
	return s.repo.List(userID, q)
}

// Get fetches a document and enforces ownership.
func (s *Service) Get(documentID, userID string) (*models.DocumentModel, error) {
	doc, err := s.repo.Get(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	if doc.UserID != userID {
		return nil, ErrForbidden
	}
	return doc, nil
}

// Delete removes the stored file first, then the row. An object-store
// failure aborts the delete so the row keeps pointing at the live object.
func (s *Service) Delete(ctx context.Context, documentID, userID string) error {
	doc, err := s.Get(documentID, userID)
	if err != nil {
		return err
	}

	if doc.FileKey != "" && s.store != nil {
		if err := s.store.Delete(ctx, doc.FileKey); err != nil {
			return fmt.Errorf("delete stored file: %w", err)
		}
	}

	if err := s.repo.Delete(doc.ID); err != nil {
		return err
	}
	s.log.Info("document deleted", zap.String("id", doc.ID), zap.String("user", userID))
	return nil
}

// Share makes a completed document publicly reachable under a fresh token.
// Sharing an already shared document returns the existing token.
func (s *Service) Share(documentID, userID string) (*models.DocumentModel, string, error) {
	doc, err := s.Get(documentID, userID)
	if err != nil {
		return nil, "", err
	}
	if doc.GenerationStatus != models.StatusCompleted {
		return nil, "", ErrNotCompleted
	}
	if doc.IsPublic && doc.ShareToken != nil && *doc.ShareToken != "" {
		return doc, *doc.ShareToken, nil
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		token, err := newShareToken()
		if err != nil {
			return nil, "", err
		}
		if err := s.repo.SetShare(doc.ID, token); err != nil {
			lastErr = err
			if !isDuplicateKeyErr(err) {
				break
			}
			continue
		}
		doc.ShareToken = &token
		doc.IsPublic = true
		return doc, token, nil
	}
	return nil, "", fmt.Errorf("assign share token: %w", lastErr)
}

// Unshare revokes public access. Already-private documents are a no-op.
func (s *Service) Unshare(documentID, userID string) (*models.DocumentModel, error) {
	doc, err := s.Get(documentID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ClearShare(doc.ID); err != nil {
		return nil, err
	}
	doc.ShareToken = nil
	doc.IsPublic = false
	return doc, nil
}

// GetShared resolves a share token to its document. Revoked and unknown
// tokens both come back as ErrNotFound.
func (s *Service) GetShared(token string) (*models.DocumentModel, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNotFound
	}
	doc, err := s.repo.FindShared(token)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

// ShareURL builds the public URL for a share token.
func (s *Service) ShareURL(token string) string {
	return s.publicBaseURL + "/api/share/" + token
}

func newShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
