package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noor-academy/student-portal-api/pkg/jobs"
)

type archivePayload struct {
	filename string
	data     []byte
}

// AsyncArchive wraps LocalStorage with a background write queue so ticket
// submissions never wait on disk. Save returns as soon as the write is
// queued; failed writes are retried by the queue.
type AsyncArchive struct {
	store *LocalStorage
	queue *jobs.Queue
}

// NewAsyncArchive builds the archive writer. Call Start before use.
func NewAsyncArchive(store *LocalStorage, logger *zap.Logger) *AsyncArchive {
	a := &AsyncArchive{store: store}
	a.queue = jobs.NewQueue("feedback-archive", a.write, jobs.QueueConfig{
		Workers: 1,
		Logger:  logger,
	})
	return a
}

// Start begins the background writer.
func (a *AsyncArchive) Start(ctx context.Context) {
	a.queue.Start(ctx)
}

// Stop drains the writer.
func (a *AsyncArchive) Stop() {
	a.queue.Stop()
}

// Save queues the file for writing and returns the target filename.
func (a *AsyncArchive) Save(filename string, data []byte) (string, error) {
	err := a.queue.Enqueue(jobs.Job{
		ID:      filename,
		Type:    "archive-write",
		Payload: archivePayload{filename: filename, data: data},
	})
	if err != nil {
		return "", fmt.Errorf("queue archive write: %w", err)
	}
	return filename, nil
}

func (a *AsyncArchive) write(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(archivePayload)
	if !ok {
		return fmt.Errorf("unexpected archive payload %T", job.Payload)
	}
	_, err := a.store.Save(payload.filename, payload.data)
	return err
}
