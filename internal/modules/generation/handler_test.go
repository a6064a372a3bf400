package generation

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-app/core/internal/middleware"
	"github.com/inkwell-app/core/internal/models"
)

// finishingDocStore reports the run as processing on the first read and
// completed afterwards, standing in for a run that reaches a terminal
// status while the events handler is setting up its subscription.
type finishingDocStore struct {
	*fakeDocStore
	mu   sync.Mutex
	gets int
}

func (f *finishingDocStore) Get(id string) (*models.DocumentModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	doc := &models.DocumentModel{
		UserID:           "u1",
		GenerationStatus: models.StatusProcessing,
		ChapterCount:     2,
		ChapterTotal:     5,
	}
	doc.ID = id
	if f.gets > 1 {
		doc.GenerationStatus = models.StatusCompleted
		doc.ChapterCount = 5
	}
	return doc, nil
}

func TestEventsSnapshotReadAfterSubscribe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	docs := &finishingDocStore{fakeDocStore: newFakeDocStore()}
	svc := newTestService(docs, newFakeObjectStore(), scriptedCaller(new(int)))
	h := NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/generation/d1/events", nil)
	c.Params = gin.Params{{Key: "id", Value: "d1"}}
	c.Set(middleware.ContextKeyUserID, "u1")

	h.events(c)

	// The post-subscribe snapshot sees the terminal status, so the handler
	// emits it and returns instead of waiting on the channel.
	body := w.Body.String()
	if !strings.Contains(body, `"status":"completed"`) {
		t.Fatalf("body = %q", body)
	}
	if docs.gets != 2 {
		t.Fatalf("snapshot reads = %d, want 2", docs.gets)
	}
}

func TestEventsTerminalDocSendsSingleSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	docs := newFakeDocStore()
	docs.status = models.StatusFailed
	docs.errMsg = "upstream exploded"
	svc := newTestService(docs, newFakeObjectStore(), scriptedCaller(new(int)))
	h := NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/generation/d1/events", nil)
	c.Params = gin.Params{{Key: "id", Value: "d1"}}

	h.events(c)

	if got := strings.Count(w.Body.String(), "data: "); got != 1 {
		t.Fatalf("events sent = %d, want 1", got)
	}
	if !strings.Contains(w.Body.String(), `"status":"failed"`) {
		t.Fatalf("body = %q", w.Body.String())
	}
}
