package document

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/inkwell-app/core/internal/models"
	"github.com/inkwell-app/core/internal/pkg/pagination"
	"github.com/inkwell-app/core/internal/pkg/response"
	"go.uber.org/zap"
)

// fakeDocRepo keeps documents in memory and logs mutations into a shared
// op list so tests can assert ordering against the object store.
type fakeDocRepo struct {
	docs      map[string]*models.DocumentModel
	ops       *[]string
	shareErrs []error
	setTokens []string
}

func (f *fakeDocRepo) List(userID string, q pagination.Query) ([]models.DocumentModel, response.Pagination, error) {
	return nil, response.Pagination{}, nil
}

func (f *fakeDocRepo) Get(id string) (*models.DocumentModel, error) {
	return f.docs[id], nil
}

func (f *fakeDocRepo) Delete(id string) error {
	*f.ops = append(*f.ops, "row:"+id)
	delete(f.docs, id)
	return nil
}

func (f *fakeDocRepo) SetShare(id, token string) error {
	f.setTokens = append(f.setTokens, token)
	if len(f.shareErrs) > 0 {
		err := f.shareErrs[0]
		f.shareErrs = f.shareErrs[1:]
		if err != nil {
			return err
		}
	}
	doc := f.docs[id]
	doc.ShareToken = &token
	doc.IsPublic = true
	return nil
}

func (f *fakeDocRepo) ClearShare(id string) error {
	doc := f.docs[id]
	doc.ShareToken = nil
	doc.IsPublic = false
	return nil
}

func (f *fakeDocRepo) FindShared(token string) (*models.DocumentModel, error) {
	for _, doc := range f.docs {
		if doc.IsPublic && doc.ShareToken != nil && *doc.ShareToken == token {
			return doc, nil
		}
	}
	return nil, nil
}

type fakeObjStore struct {
	ops       *[]string
	deleteErr error
}

func (f *fakeObjStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	return "https://files.test/" + key, nil
}

func (f *fakeObjStore) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	*f.ops = append(*f.ops, "object:"+key)
	return nil
}

func (f *fakeObjStore) Ping(ctx context.Context) error { return nil }

func completedDoc(id, userID, fileKey string) *models.DocumentModel {
	doc := &models.DocumentModel{
		UserID:           userID,
		GenerationStatus: models.StatusCompleted,
		FileKey:          fileKey,
	}
	doc.ID = id
	return doc
}

func newTestService(repo *fakeDocRepo, store *fakeObjStore) *Service {
	return &Service{
		repo:          repo,
		store:         store,
		log:           zap.NewNop(),
		publicBaseURL: "https://inkwell.example.com",
	}
}

func TestDeleteRemovesObjectBeforeRow(t *testing.T) {
	var ops []string
	repo := &fakeDocRepo{ops: &ops, docs: map[string]*models.DocumentModel{
		"d1": completedDoc("d1", "u1", "documents/u1/d1.pdf"),
	}}
	svc := newTestService(repo, &fakeObjStore{ops: &ops})

	if err := svc.Delete(context.Background(), "d1", "u1"); err != nil {
		t.Fatal(err)
	}
	want := []string{"object:documents/u1/d1.pdf", "row:d1"}
	if len(ops) != 2 || ops[0] != want[0] || ops[1] != want[1] {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
	if repo.docs["d1"] != nil {
		t.Fatal("row survived delete")
	}
}

func TestDeleteKeepsRowWhenObjectDeleteFails(t *testing.T) {
	var ops []string
	repo := &fakeDocRepo{ops: &ops, docs: map[string]*models.DocumentModel{
		"d1": completedDoc("d1", "u1", "documents/u1/d1.pdf"),
	}}
	svc := newTestService(repo, &fakeObjStore{ops: &ops, deleteErr: errors.New("access denied")})

	err := svc.Delete(context.Background(), "d1", "u1")
	if err == nil || !strings.Contains(err.Error(), "delete stored file") {
		t.Fatalf("err = %v", err)
	}
	if len(ops) != 0 {
		t.Fatalf("ops = %v, want none", ops)
	}
	if repo.docs["d1"] == nil {
		t.Fatal("row deleted despite object-store failure")
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	var ops []string
	repo := &fakeDocRepo{ops: &ops, docs: map[string]*models.DocumentModel{
		"d1": completedDoc("d1", "u1", "documents/u1/d1.pdf"),
	}}
	svc := newTestService(repo, &fakeObjStore{ops: &ops})

	if err := svc.Delete(context.Background(), "d1", "u2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v", err)
	}
	if len(ops) != 0 {
		t.Fatalf("ops = %v, want none", ops)
	}
}

func TestShareReturnsExistingToken(t *testing.T) {
	var ops []string
	token := "existing-token"
	doc := completedDoc("d1", "u1", "documents/u1/d1.pdf")
	doc.ShareToken = &token
	doc.IsPublic = true
	repo := &fakeDocRepo{ops: &ops, docs: map[string]*models.DocumentModel{"d1": doc}}
	svc := newTestService(repo, &fakeObjStore{ops: &ops})

	_, got, err := svc.Share("d1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got != token {
		t.Fatalf("token = %q, want %q", got, token)
	}
	if len(repo.setTokens) != 0 {
		t.Fatalf("token rewritten: %v", repo.setTokens)
	}
}

func TestShareRetriesOnTokenCollision(t *testing.T) {
	var ops []string
	repo := &fakeDocRepo{
		ops:       &ops,
		docs:      map[string]*models.DocumentModel{"d1": completedDoc("d1", "u1", "documents/u1/d1.pdf")},
		shareErrs: []error{errors.New("Error 1062: Duplicate entry 'x' for key 'share_token'")},
	}
	svc := newTestService(repo, &fakeObjStore{ops: &ops})

	doc, token, err := svc.Share("d1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(repo.setTokens) != 2 {
		t.Fatalf("attempts = %d, want 2", len(repo.setTokens))
	}
	if repo.setTokens[0] == repo.setTokens[1] {
		t.Fatal("retry reused the colliding token")
	}
	if !doc.IsPublic || doc.ShareToken == nil || *doc.ShareToken != token {
		t.Fatalf("doc = %+v", doc)
	}
}

func TestShareRequiresCompletedDocument(t *testing.T) {
	var ops []string
	doc := completedDoc("d1", "u1", "")
	doc.GenerationStatus = models.StatusProcessing
	repo := &fakeDocRepo{ops: &ops, docs: map[string]*models.DocumentModel{"d1": doc}}
	svc := newTestService(repo, &fakeObjStore{ops: &ops})

	if _, _, err := svc.Share("d1", "u1"); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("err = %v", err)
	}
}

func TestUnshareRevokesPublicAccess(t *testing.T) {
	var ops []string
	repo := &fakeDocRepo{ops: &ops, docs: map[string]*models.DocumentModel{
		"d1": completedDoc("d1", "u1", "documents/u1/d1.pdf"),
	}}
	svc := newTestService(repo, &fakeObjStore{ops: &ops})

	_, token, err := svc.Share("d1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetShared(token); err != nil {
		t.Fatalf("shared lookup failed: %v", err)
	}

	if _, err := svc.Unshare("d1", "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetShared(token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("revoked token resolved: %v", err)
	}
}

func TestGetSharedRejectsPrivateToken(t *testing.T) {
	var ops []string
	token := "secret-but-private"
	doc := completedDoc("d1", "u1", "documents/u1/d1.pdf")
	doc.ShareToken = &token
	doc.IsPublic = false
	repo := &fakeDocRepo{ops: &ops, docs: map[string]*models.DocumentModel{"d1": doc}}
	svc := newTestService(repo, &fakeObjStore{ops: &ops})

	if _, err := svc.GetShared(token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestNewShareToken(t *testing.T) {
	a, err := newShareToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != shareTokenBytes*2 {
		t.Fatalf("token length = %d", len(a))
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Fatalf("token is not hex: %v", err)
	}

	b, _ := newShareToken()
	if a == b {
		t.Fatal("two tokens collided")
	}
}

func TestShareURL(t *testing.T) {
	svc := &Service{publicBaseURL: "https://inkwell.example.com"}
	got := svc.ShareURL("abc123")
	if got != "https://inkwell.example.com/api/share/abc123" {
		t.Fatalf("url = %q", got)
	}
}

func TestIsDuplicateKeyErr(t *testing.T) {
	if !isDuplicateKeyErr(errors.New("Error 1062: Duplicate entry 'x' for key 'share_token'")) {
		t.Fatal("mysql duplicate not detected")
	}
	if !isDuplicateKeyErr(errors.New("UNIQUE constraint failed: documents.share_token")) {
		t.Fatal("unique constraint not detected")
	}
	if isDuplicateKeyErr(errors.New("connection refused")) {
		t.Fatal("false positive")
	}
}

func TestToPublicView(t *testing.T) {
	url := "https://files.test/documents/u/d.pdf"
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	doc := &models.DocumentModel{
		Title:  "My Book",
		Type:   models.DocTypeBookSmall,
		Format: models.FormatPDF,
		FileURL: &url,
	}
	doc.ID = "doc-1"
	doc.CreatedAt = created

	view := toPublicView(doc)
	if view.ID != "doc-1" || view.Title != "My Book" || view.Type != "book_small" {
		t.Fatalf("view = %+v", view)
	}
	if view.FileURL == nil || *view.FileURL != url {
		t.Fatalf("file url = %v", view.FileURL)
	}
	if !view.Created.Equal(created) {
		t.Fatalf("created = %v", view.Created)
	}
}
