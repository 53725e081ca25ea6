package middleware

import (
	"maps"
	"net/http"
	"sync"
)

// bufferedWriter holds the response in memory until flush. It lets Timeout
// write a 504 and UnitOfWork write a 500 in place of whatever the handler
// produced. All methods are safe for concurrent use.
type bufferedWriter struct {
	w           http.ResponseWriter
	mu          sync.Mutex
	header      http.Header
	buf         []byte
	statusCode  int
	wroteHeader bool
}

func newBufferedWriter(w http.ResponseWriter) *bufferedWriter {
	return &bufferedWriter{w: w}
}

func (bw *bufferedWriter) Header() http.Header {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.header == nil {
		bw.header = make(http.Header)
	}
	return bw.header
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if !bw.wroteHeader {
		bw.statusCode = http.StatusOK
		bw.wroteHeader = true
	}
	bw.buf = append(bw.buf, b...)
	return len(b), nil
}

func (bw *bufferedWriter) WriteHeader(code int) {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.wroteHeader {
		return
	}
	bw.statusCode = code
	bw.wroteHeader = true
}

// status returns the buffered status code; 200 when the handler wrote
// nothing.
func (bw *bufferedWriter) status() int {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if !bw.wroteHeader {
		return http.StatusOK
	}
	return bw.statusCode
}

// flush copies the buffered response to the underlying writer.
func (bw *bufferedWriter) flush() {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	bw.flushLocked()
}

func (bw *bufferedWriter) flushLocked() {
	if bw.header != nil {
		maps.Copy(bw.w.Header(), bw.header)
	}
	if bw.wroteHeader {
		bw.w.WriteHeader(bw.statusCode)
	}
	if len(bw.buf) > 0 {
		_, _ = bw.w.Write(bw.buf)
	}
}
