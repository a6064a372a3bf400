package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appcfg "github.com/inkwell-app/core/internal/config"
	"github.com/inkwell-app/core/internal/models"
	"github.com/inkwell-app/core/internal/modules/render"
	"github.com/inkwell-app/core/internal/modules/storage/object"
	"github.com/inkwell-app/core/internal/pkg/metrics"
	redisc "github.com/inkwell-app/core/internal/pkg/redis"
	"github.com/inkwell-app/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const TaskTypeGenerate = "generation:document"

var (
	ErrNotFound        = errors.New("document not found")
	ErrForbidden       = errors.New("not the document owner")
	ErrAlreadyFinished = errors.New("generation already finished")
	ErrInvalidInput    = errors.New("invalid generation request")
)

// modelCaller matches callLLM so tests can stub out provider traffic.
type modelCaller func(ctx context.Context, provider *appcfg.AIProvider, systemPrompt, prompt string, maxTokens int) (string, error)

// Service runs the generation pipeline: outline, per-unit model calls,
// render, upload, finalize.
type Service struct {
	docs        docStore
	store       object.Store
	taskSvc     *taskqueue.Service
	rc          *redisc.Client
	cfg         *appcfg.AppConfig
	log         *zap.Logger
	registry    *runRegistry
	callModel   modelCaller
	rendererFor func(format string) (render.Renderer, error)
}

func NewService(db *gorm.DB, store object.Store, taskSvc *taskqueue.Service, rc *redisc.Client, cfg *appcfg.AppConfig, log *zap.Logger) *Service {
	return &Service{
		docs:        newGormDocStore(db),
		store:       store,
		taskSvc:     taskSvc,
		rc:          rc,
		cfg:         cfg,
		log:         log.Named("generation"),
		registry:    newRunRegistry(),
		callModel:   callLLM,
		rendererFor: render.ForFormat,
	}
}

// Start validates the request, creates the pending document row, registers
// the task and launches the pipeline goroutine.
func (s *Service) Start(ctx context.Context, userID, prompt, docType, format string) (*models.DocumentModel, *taskqueue.Task, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}
	if !models.ValidDocType(docType) {
		return nil, nil, fmt.Errorf("%w: unknown document type", ErrInvalidInput)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = models.FormatPDF
	}
	if !models.ValidFormat(format) {
		return nil, nil, fmt.Errorf("%w: format must be pdf or docx", ErrInvalidInput)
	}

	p := plans[docType]
	doc := &models.DocumentModel{
		UserID:           userID,
		Title:            truncateText(prompt, 200),
		Type:             docType,
		Format:           format,
		GenerationStatus: models.StatusPending,
		ChapterTotal:     p.Units,
	}
	if err := s.docs.Create(doc); err != nil {
		return nil, nil, err
	}

	payload := Payload{
		DocumentID: doc.ID,
		UserID:     userID,
		Prompt:     prompt,
		DocType:    docType,
		Format:     format,
	}
	task, err := s.taskSvc.Enqueue(ctx, TaskTypeGenerate, payload, "", doc.ID)
	if err != nil {
		// The run never starts without a task; fail the row right away.
		_, _ = s.docs.FinishFailed(doc.ID, "failed to queue generation task")
		return nil, nil, fmt.Errorf("enqueue generation task: %w", err)
	}

	runCtx := s.registry.register(context.Background(), doc.ID)
	go s.run(runCtx, task.ID, payload)

	metrics.GenerationsStarted.WithLabelValues(docType).Inc()
	s.log.Info("generation started",
		zap.String("document", doc.ID),
		zap.String("task", task.ID),
		zap.String("type", docType),
		zap.String("format", format),
	)
	return doc, task, nil
}

// Cancel requests cooperative cancellation of a run. The document flips to
// cancelled immediately (guarded); the in-flight goroutine observes its
// context at the next checkpoint.
func (s *Service) Cancel(ctx context.Context, documentID, userID string) error {
	doc, err := s.docs.Get(documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrNotFound
	}
	if doc.UserID != userID {
		return ErrForbidden
	}
	if models.IsTerminalStatus(doc.GenerationStatus) {
		return ErrAlreadyFinished
	}

	won, err := s.docs.FinishCancelled(documentID)
	if err != nil {
		return err
	}
	if !won {
		return ErrAlreadyFinished
	}

	s.registry.cancel(documentID)
	publishProgress(ctx, s.rc, ProgressEvent{
		DocumentID:   documentID,
		Status:       models.StatusCancelled,
		ChapterCount: doc.ChapterCount,
		ChapterTotal: doc.ChapterTotal,
	})
	metrics.GenerationsFinished.WithLabelValues(doc.Type, models.StatusCancelled).Inc()

	if task, _ := s.taskSvc.GetLatestByGroup(ctx, TaskTypeGenerate, documentID); task != nil {
		_ = s.taskSvc.Cancel(ctx, task.ID)
	}
	s.log.Info("generation cancelled", zap.String("document", documentID))
	return nil
}

// Status returns the document row and its latest task for polling.
func (s *Service) Status(ctx context.Context, documentID, userID string) (*models.DocumentModel, *taskqueue.Task, error) {
	doc, err := s.docs.Get(documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, ErrNotFound
	}
	if doc.UserID != userID {
		return nil, nil, ErrForbidden
	}
	task, _ := s.taskSvc.GetLatestByGroup(ctx, TaskTypeGenerate, documentID)
	return doc, task, nil
}
