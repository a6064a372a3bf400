package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-app/core/internal/models"
	"github.com/inkwell-app/core/internal/modules/render"
	"github.com/inkwell-app/core/internal/pkg/metrics"
	"github.com/inkwell-app/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

const uploadTimeout = 2 * time.Minute

// run executes one generation pipeline. ctx is the per-run cancellation
// context from the registry; everything that must survive a cancel (task
// bookkeeping, the final guarded write) uses a background context.
func (s *Service) run(ctx context.Context, taskID string, p Payload) {
	defer s.registry.release(p.DocumentID)

	log := s.log.With(zap.String("document", p.DocumentID), zap.String("task", taskID))
	metrics.GenerationsActive.Inc()
	defer metrics.GenerationsActive.Dec()

	bg := context.Background()
	finishTask := func(status taskqueue.TaskStatus, result interface{}, msg string) {
		_ = s.taskSvc.UpdateStatus(bg, taskID, status, result, msg)
	}

	fail := func(msg string) {
		log.Warn("generation failed", zap.String("reason", msg))
		if won, _ := s.docs.FinishFailed(p.DocumentID, msg); won {
			metrics.GenerationsFinished.WithLabelValues(p.DocType, models.StatusFailed).Inc()
			publishProgress(bg, s.rc, ProgressEvent{
				DocumentID: p.DocumentID,
				Status:     models.StatusFailed,
				Error:      msg,
			})
		}
		finishTask(taskqueue.TaskFailed, nil, msg)
	}

	// cancelled covers runs whose context was cancelled; the guarded
	// document write usually already happened in Cancel.
	cancelled := func() {
		log.Info("generation run stopped by cancellation")
		if won, _ := s.docs.FinishCancelled(p.DocumentID); won {
			metrics.GenerationsFinished.WithLabelValues(p.DocType, models.StatusCancelled).Inc()
			publishProgress(bg, s.rc, ProgressEvent{
				DocumentID: p.DocumentID,
				Status:     models.StatusCancelled,
			})
		}
		finishTask(taskqueue.TaskCancelled, nil, "cancelled by user")
	}

	pl, ok := plans[p.DocType]
	if !ok {
		fail("unknown document type")
		return
	}

	provider := selectProvider(s.cfg.AI, s.cfg.AI.GenerateModel)
	if provider == nil {
		fail("no enabled AI provider")
		return
	}

	won, err := s.docs.MarkProcessing(p.DocumentID, pl.Units)
	if err != nil {
		fail(fmt.Sprintf("mark processing: %v", err))
		return
	}
	if !won {
		// Cancelled between enqueue and pickup.
		cancelled()
		return
	}
	finishTask(taskqueue.TaskRunning, nil, "")
	publishProgress(bg, s.rc, ProgressEvent{
		DocumentID:   p.DocumentID,
		Status:       models.StatusProcessing,
		ChapterTotal: pl.Units,
	})

	lang := s.cfg.AI.TargetLanguage
	unitTimeout := time.Duration(s.cfg.Generation.UnitTimeoutSec) * time.Second
	callWithTimeout := func(systemPrompt, prompt string, maxTokens int) (string, error) {
		cctx, cancel := context.WithTimeout(ctx, unitTimeout)
		defer cancel()
		return s.callModel(cctx, provider, systemPrompt, prompt, maxTokens)
	}

	var (
		docTitle string
		titles   []string
	)
	if pl.Research {
		docTitle = strings.TrimSpace(truncateText(p.Prompt, 120))
		titles = researchSections
	} else {
		if ctx.Err() != nil {
			cancelled()
			return
		}
		sys, prompt := buildOutlinePrompt(lang, p.Prompt, pl.Units)
		raw, err := callWithTimeout(sys, prompt, s.cfg.Generation.MaxOutlineTokens)
		if err != nil {
			if ctx.Err() != nil {
				cancelled()
			} else {
				fail(fmt.Sprintf("outline: %v", err))
			}
			return
		}
		out := parseOutline(raw, p.Prompt, pl.Units)
		docTitle = out.Title
		titles = out.Chapters
	}

	sections := make([]render.Section, 0, pl.Units)
	rolling := ""
	for i := 1; i <= pl.Units; i++ {
		if ctx.Err() != nil {
			cancelled()
			return
		}

		var sys, prompt string
		if pl.Research {
			sys, prompt = buildSectionPrompt(lang, docTitle, titles, rolling, p.Prompt, i, pl.Units)
		} else {
			sys, prompt = buildChapterPrompt(lang, docTitle, titles, rolling, p.Prompt, i, pl.Units)
		}

		text, err := callWithTimeout(sys, prompt, s.cfg.Generation.MaxUnitTokens)
		if err != nil {
			if ctx.Err() != nil {
				cancelled()
			} else {
				fail(fmt.Sprintf("%s %d: %v", strings.ToLower(pl.UnitLabel), i, err))
			}
			return
		}

		sections = append(sections, render.SectionFromMarkdown(titles[i-1], text))
		_ = s.docs.SetProgress(p.DocumentID, i)
		publishProgress(bg, s.rc, ProgressEvent{
			DocumentID:   p.DocumentID,
			Status:       models.StatusProcessing,
			ChapterCount: i,
			ChapterTotal: pl.Units,
			Unit:         titles[i-1],
		})
		log.Debug("unit generated", zap.Int("index", i), zap.String("title", titles[i-1]))

		if i < pl.Units {
			rolling = s.updateRollingSummary(callWithTimeout, rolling, text)
		}
	}

	if ctx.Err() != nil {
		cancelled()
		return
	}

	renderer, err := s.rendererFor(p.Format)
	if err != nil {
		fail(err.Error())
		return
	}
	subtitle := ""
	if pl.Research {
		subtitle = "A Research Paper"
	}
	fileBytes, err := renderer.Render(render.Document{
		Title:    docTitle,
		Subtitle: subtitle,
		Sections: sections,
	})
	if err != nil {
		fail(fmt.Sprintf("render: %v", err))
		return
	}

	if ctx.Err() != nil {
		cancelled()
		return
	}

	// Upload runs on its own context: a cancel arriving now loses the race
	// and the guarded finalize below settles it.
	upCtx, upCancel := context.WithTimeout(bg, uploadTimeout)
	defer upCancel()
	key := fmt.Sprintf("documents/%s/%s.%s", p.UserID, p.DocumentID, renderer.Ext())
	fileURL, err := s.store.Put(upCtx, key, fileBytes, renderer.ContentType())
	if err != nil {
		fail(fmt.Sprintf("upload: %v", err))
		return
	}

	won, err = s.docs.FinishCompleted(p.DocumentID, fileURL, key, int64(len(fileBytes)))
	if err != nil {
		// The row never got the file fields; drop the orphaned object.
		_ = s.store.Delete(upCtx, key)
		fail(fmt.Sprintf("finalize: %v", err))
		return
	}
	if !won {
		// A cancel beat the finalize; drop the orphaned object.
		_ = s.store.Delete(upCtx, key)
		finishTask(taskqueue.TaskCancelled, nil, "cancelled by user")
		log.Info("completed run discarded after cancellation")
		return
	}

	metrics.GenerationsFinished.WithLabelValues(p.DocType, models.StatusCompleted).Inc()
	publishProgress(bg, s.rc, ProgressEvent{
		DocumentID:   p.DocumentID,
		Status:       models.StatusCompleted,
		ChapterCount: pl.Units,
		ChapterTotal: pl.Units,
	})
	finishTask(taskqueue.TaskCompleted, map[string]string{"fileUrl": fileURL}, "")
	log.Info("generation completed",
		zap.String("file", key),
		zap.Int("bytes", len(fileBytes)),
	)
}

// updateRollingSummary folds the latest unit into the running summary used
// for coherence. Summary failures are non-fatal; the previous summary is
// kept.
func (s *Service) updateRollingSummary(call func(string, string, int) (string, error), previous, latest string) string {
	combined := previous
	if combined != "" {
		combined += "\n\n"
	}
	combined += latest

	sys, prompt := buildRollingSummaryPrompt(combined)
	raw, err := call(sys, prompt, 300)
	if err != nil {
		return previous
	}
	var out struct {
		Summary string `json:"summary"`
	}
	if err := unmarshalModelJSON(raw, &out); err != nil || strings.TrimSpace(out.Summary) == "" {
		return previous
	}
	return strings.TrimSpace(out.Summary)
}
