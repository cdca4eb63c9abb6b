package session

import "net/http"

// finishWriter runs the post-handling hook before the first header or body
// write so session cookies make it into the response.
type finishWriter struct {
	http.ResponseWriter
	finish  func() error
	onError func(error)
	done    bool
	err     error
}

func (w *finishWriter) before() error {
	if !w.done {
		w.done = true
		if err := w.finish(); err != nil {
			w.err = err
			w.onError(err)
		}
	}
	return w.err
}

// WriteHeader finalizes the session before delegating.
func (w *finishWriter) WriteHeader(statusCode int) {
	if w.before() != nil {
		return
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write finalizes the session before delegating. Once finalization failed
// the error response has been written and the body is dropped.
func (w *finishWriter) Write(b []byte) (int, error) {
	if err := w.before(); err != nil {
		return 0, err
	}
	return w.ResponseWriter.Write(b)
}

// Flush implements http.Flusher for streaming handlers.
func (w *finishWriter) Flush() {
	if w.before() != nil {
		return
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *finishWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// finalize runs the hook when the handler wrote nothing.
func (w *finishWriter) finalize() {
	_ = w.before()
}
