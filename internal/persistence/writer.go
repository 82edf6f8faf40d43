package persistence

import (
	"log/slog"
)

// fileWriter is the single writer task per file spec.md §4.1 calls for.
// Requests are coalesced: the channel has depth 1 and a pending send is
// replaced rather than queued, so a burst of snapshot requests during one
// cycle collapses into the latest state, written once. Grounded on
// Hillside's internal/storage.HistoryManager/PeerManager, which each run a
// dedicated worker goroutine started by Start().
type fileWriter struct {
	path string
	log  *slog.Logger
	reqs chan any
	done chan struct{}
}

func newFileWriter(path string, log *slog.Logger) *fileWriter {
	w := &fileWriter{
		path: path,
		log:  log,
		reqs: make(chan any, 1),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *fileWriter) run() {
	defer close(w.done)
	for v := range w.reqs {
		if err := writeJSONAtomic(w.path, v); err != nil {
			w.log.Error("persistence write failed", "path", w.path, "error", err)
		}
	}
}

// Submit enqueues v to be written. If a write is already pending, the
// older value is dropped in favor of v — snapshots are always logically
// "latest wins", never ordered against each other.
func (w *fileWriter) Submit(v any) {
	for {
		select {
		case w.reqs <- v:
			return
		default:
			select {
			case <-w.reqs:
			default:
			}
		}
	}
}

// Close stops accepting new writes and blocks until the writer goroutine
// has drained whatever was queued, so a shutdown snapshot submitted just
// before Close is guaranteed to land on disk before it returns.
func (w *fileWriter) Close() {
	close(w.reqs)
	<-w.done
}
