package httpx

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
)

// CompressionConfig holds configuration for the compression middleware.
type CompressionConfig struct {
	Level   int // gzip level 1-9; 0 uses gzip.DefaultCompression
	MinSize int // minimum body size to compress in bytes; 0 always compresses
	Logger  *slog.Logger
}

// compressibleTypes lists media types worth compressing. Event streams are
// deliberately absent: buffering them would delay delivery.
//
//nolint:gochecknoglobals // static read-only lookup
var compressibleTypes = map[string]bool{
	"text/html":              true,
	"text/css":               true,
	"text/plain":             true,
	"text/javascript":        true,
	"application/javascript": true,
	"application/json":       true,
	"image/svg+xml":          true,
}

// Compression returns a middleware that gzips responses when the client
// accepts gzip, the content type is compressible, the status carries a body
// and the request is not HEAD.
func Compression(cfg CompressionConfig) func(http.Handler) http.Handler {
	if cfg.Level < gzip.HuffmanOnly || cfg.Level > gzip.BestCompression || cfg.Level == 0 {
		cfg.Level = gzip.DefaultCompression
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	pool := &sync.Pool{New: func() any {
		w, err := gzip.NewWriterLevel(io.Discard, cfg.Level)
		if err != nil {
			return gzip.NewWriter(io.Discard)
		}
		return w
	}}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead || !acceptsGzip(r.Header.Get("Accept-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Accept-Encoding")
			gzw := &gzipResponseWriter{ResponseWriter: w, request: r, pool: pool, minSize: cfg.MinSize, logger: cfg.Logger}
			next.ServeHTTP(gzw, r)
			gzw.finish()
		})
	}
}

// acceptsGzip checks Accept-Encoding for gzip, honouring an explicit q=0.
func acceptsGzip(acceptEncoding string) bool {
	for _, part := range strings.Split(acceptEncoding, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(name), "gzip") {
			continue
		}
		q := strings.ReplaceAll(params, " ", "")
		return q != "q=0" && q != "q=0.0" && q != "q=0.00" && q != "q=0.000"
	}
	return false
}

func isCompressibleContentType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return compressibleTypes[strings.ToLower(strings.TrimSpace(mediaType))]
}

// gzipResponseWriter decides at WriteHeader time whether to compress.
type gzipResponseWriter struct {
	http.ResponseWriter
	request       *http.Request
	pool          *sync.Pool
	logger        *slog.Logger
	gz            *gzip.Writer
	headerWritten bool
	minSize       int
	buffered      []byte
	status        int
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	if w.headerWritten {
		return
	}
	w.headerWritten = true
	w.status = status

	h := w.Header()
	if status < http.StatusOK || status == http.StatusNoContent || status == http.StatusNotModified ||
		h.Get("Content-Encoding") != "" || !isCompressibleContentType(h.Get("Content-Type")) {
		w.ResponseWriter.WriteHeader(status)
		return
	}

	if w.minSize > 0 {
		// Header is deferred until the threshold is known.
		return
	}
	w.startGzip()
	w.ResponseWriter.WriteHeader(status)
}

func (w *gzipResponseWriter) startGzip() {
	gz, _ := w.pool.Get().(*gzip.Writer)
	if gz == nil {
		gz = gzip.NewWriter(io.Discard)
	}
	gz.Reset(w.ResponseWriter)
	w.gz = gz
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Del("Content-Length")
}

func (w *gzipResponseWriter) pending() bool {
	return w.headerWritten && w.gz == nil && w.minSize > 0 && w.status != 0 &&
		w.Header().Get("Content-Encoding") == "" && isCompressibleContentType(w.Header().Get("Content-Type")) &&
		w.status >= http.StatusOK && w.status != http.StatusNoContent && w.status != http.StatusNotModified
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.headerWritten {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(b))
		}
		w.WriteHeader(http.StatusOK)
	}

	if w.pending() {
		w.buffered = append(w.buffered, b...)
		if len(w.buffered) < w.minSize {
			return len(b), nil
		}
		w.startGzip()
		w.ResponseWriter.WriteHeader(w.status)
		buf := w.buffered
		w.buffered = nil
		if _, err := w.gz.Write(buf); err != nil {
			return 0, err
		}
		return len(b), nil
	}

	if w.gz != nil {
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// finish flushes a body that stayed under MinSize uncompressed and returns
// the gzip writer to the pool.
func (w *gzipResponseWriter) finish() {
	if w.pending() {
		w.ResponseWriter.WriteHeader(w.status)
		if len(w.buffered) > 0 {
			if _, err := w.ResponseWriter.Write(w.buffered); err != nil {
				w.logger.DebugContext(w.request.Context(), "writing buffered response failed", "error", err)
			}
		}
		w.buffered = nil
		return
	}
	if w.gz == nil {
		return
	}
	if err := w.gz.Close(); err != nil {
		w.logger.ErrorContext(w.request.Context(), "closing gzip writer failed", "error", err)
	}
	w.gz.Reset(io.Discard)
	w.pool.Put(w.gz)
	w.gz = nil
}

// Flush implements http.Flusher for streaming support.
func (w *gzipResponseWriter) Flush() {
	if w.gz != nil {
		if err := w.gz.Flush(); err != nil {
			w.logger.ErrorContext(w.request.Context(), "flushing gzip writer failed", "error", err)
		}
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *gzipResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Hijack implements http.Hijacker.
func (w *gzipResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, errors.New("http.Hijacker not supported")
}
