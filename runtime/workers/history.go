package workers

import (
	"campusfood/contract"
	"campusfood/domain"
	"campusfood/observability"
	"context"
	"log/slog"
)

type historyRecord struct {
	chat         *domain.ChatMessage
	announcement *domain.Announcement
}

// HistoryRecorder is the producing side of the history pipeline. Record
// calls enqueue and return immediately: a slow or failing document store can
// never stall message routing. When the queue is full the record is dropped
// and counted, keeping the at-most-once, fire-and-forget policy.
//
// A single consumer drains the queue, so records are persisted in the order
// they were enqueued; each connection enqueues sequentially from its read
// loop, which preserves per-sender submission order.
type HistoryRecorder struct {
	log     *slog.Logger
	metrics *observability.Metrics
	queue   chan historyRecord
}

func NewHistoryRecorder(log *slog.Logger, metrics *observability.Metrics, bufferSize int) *HistoryRecorder {
	return &HistoryRecorder{
		log:     log,
		metrics: metrics,
		queue:   make(chan historyRecord, bufferSize),
	}
}

func (h *HistoryRecorder) RecordChat(msg domain.ChatMessage) {
	h.enqueue(historyRecord{chat: &msg})
}

func (h *HistoryRecorder) RecordAnnouncement(ann domain.Announcement) {
	h.enqueue(historyRecord{announcement: &ann})
}

func (h *HistoryRecorder) enqueue(rec historyRecord) {
	select {
	case h.queue <- rec:
	default:
		h.metrics.HistoryQueueDrops.Inc()
		h.log.Warn("history queue full, record dropped")
	}
}

// HistoryWorker is the consuming side: it appends queued records to the
// document store under supervision. Append failures are logged and counted,
// never propagated; delivery already happened independently.
type HistoryWorker struct {
	log           *slog.Logger
	metrics       *observability.Metrics
	messages      contract.IMessageRepository
	announcements contract.IAnnouncementRepository
	queue         <-chan historyRecord
}

func NewHistoryWorker(log *slog.Logger, recorder *HistoryRecorder,
	messages contract.IMessageRepository, announcements contract.IAnnouncementRepository,
	metrics *observability.Metrics) HistoryWorker {
	return HistoryWorker{
		log:           log,
		metrics:       metrics,
		messages:      messages,
		announcements: announcements,
		queue:         recorder.queue,
	}
}

func (w HistoryWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("stopping history worker")
			return nil
		case rec := <-w.queue:
			w.persist(rec)
		}
	}
}

func (w HistoryWorker) persist(rec historyRecord) {
	var err error
	switch {
	case rec.chat != nil:
		err = w.messages.Append(*rec.chat)
	case rec.announcement != nil:
		err = w.announcements.Append(*rec.announcement)
	}
	if err != nil {
		w.metrics.PersistenceFailures.Inc()
		w.log.Warn("history append failed", "error", err)
	}
}
