package enrich

import (
	"log/slog"

	"github.com/google/uuid"
)

// Worker drains the enrichment queue in the background. Report creation
// enqueues and returns immediately; enrichment failures are logged and never
// surface to the submission flow.
type Worker struct {
	service *Service
	queue   chan uuid.UUID
	done    chan struct{}
}

func NewWorker(service *Service, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Worker{
		service: service,
		queue:   make(chan uuid.UUID, queueSize),
		done:    make(chan struct{}),
	}
}

func (w *Worker) Start() {
	go func() {
		for {
			select {
			case reportID := <-w.queue:
				w.process(reportID)
			case <-w.done:
				return
			}
		}
	}()
}

// Enqueue submits a report for enrichment without blocking. Enrichment is
// best-effort: when the queue is full the request is dropped, not the report.
func (w *Worker) Enqueue(reportID uuid.UUID) {
	select {
	case w.queue <- reportID:
	default:
		slog.Warn("enrichment queue full, dropping request", "report_id", reportID)
	}
}

func (w *Worker) Stop() {
	close(w.done)
}

func (w *Worker) process(reportID uuid.UUID) {
	if _, err := w.service.EnrichReport(reportID); err != nil {
		slog.Error("report enrichment failed", "report_id", reportID, "error", err)
		return
	}
	slog.Info("report enriched", "report_id", reportID)
}
