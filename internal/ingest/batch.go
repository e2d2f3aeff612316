package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/ingredient-scanner/internal/async"
	"github.com/joseph-ayodele/ingredient-scanner/internal/capture"
	"github.com/joseph-ayodele/ingredient-scanner/internal/common"
	"github.com/joseph-ayodele/ingredient-scanner/internal/export"
	"github.com/joseph-ayodele/ingredient-scanner/internal/scan"
)

// Batch scans many files on a worker queue and keeps one report row per
// submitted path. Every job gets its own scan controller, so jobs never
// supersede each other.
type Batch struct {
	recognizer scan.Recognizer
	recorder   scan.Recorder
	logger     *slog.Logger
	queue      *async.WorkerQueue

	mu    sync.Mutex
	order []string
	rows  map[string]export.Row
}

var _ async.Processor = (*Batch)(nil)

func NewBatch(rec scan.Recognizer, recorder scan.Recorder, logger *slog.Logger, opts ...async.Option) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Batch{
		recognizer: rec,
		recorder:   recorder,
		logger:     logger,
		rows:       make(map[string]export.Row),
	}
	b.queue = async.NewWorkerQueue(b, logger, opts...)
	return b
}

// Submit queues path. A path submitted again is rescanned and its row replaced.
func (b *Batch) Submit(ctx context.Context, path string) error {
	b.mu.Lock()
	if _, seen := b.rows[path]; !seen {
		b.order = append(b.order, path)
		b.rows[path] = export.Row{Path: path}
	}
	b.mu.Unlock()
	return b.queue.Enqueue(ctx, async.NewJob(path))
}

// Process scans one job; it is called by the queue's workers.
func (b *Batch) Process(ctx context.Context, job async.Job) error {
	start := time.Now()
	ctx = common.WithRequestID(ctx, job.ID.String())

	controller := scan.NewController(b.recognizer, nil,
		scan.WithLogger(b.logger.With("job_id", job.ID)),
		scan.WithRecorder(b.recorder),
	)
	st, err := controller.ScanImage(ctx, capture.FileInput{Paths: []string{job.Path}})

	row := export.Row{
		Path:     job.Path,
		Status:   scan.StatusOf(err),
		Result:   st.Result,
		Duration: time.Since(start),
	}
	if err != nil {
		row.Err = common.UserMessage(err, scan.MsgScanError)
	} else if st.Card != nil {
		row.Text = st.Card.Text
	}

	b.mu.Lock()
	b.rows[job.Path] = row
	b.mu.Unlock()
	return err
}

// Rows returns the rows in submission order. Rows of jobs still running carry
// an empty status.
func (b *Batch) Rows() []export.Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]export.Row, 0, len(b.order))
	for _, p := range b.order {
		out = append(out, b.rows[p])
	}
	return out
}

// Close drains the queue and returns the final rows.
func (b *Batch) Close(ctx context.Context) []export.Row {
	b.queue.Shutdown(ctx)
	return b.Rows()
}
