package api

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// statusResponseWriter remembers the status and size of a response
type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *statusResponseWriter {
	if srw, ok := w.(*statusResponseWriter); ok {
		return srw
	}
	return &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestEvent adds the fields every request log line carries
func requestEvent(e *zerolog.Event, r *http.Request) *zerolog.Event {
	return e.
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", middleware.GetReqID(r.Context()))
}

// LogInternalServerErrors recovers panics into a JSON 500 and logs every 5xx response
func LogInternalServerErrors(next http.Handler) http.Handler {
	responder := NewResponder(log.With().Str("handlerName", "recoverer").Logger())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := wrapResponseWriter(w)

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			requestEvent(log.Error(), r).
				Interface("panic", rec).
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic")

			if !srw.wroteHeader {
				responder.WriteJSON(srw, http.StatusInternalServerError, ErrorResponse{
					Error:  "Internal Server Error",
					Status: "error",
				})
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status >= http.StatusInternalServerError {
			requestEvent(log.Error(), r).Int("status", srw.status).Msg("5xx error response")
		}
	})
}

// HTTPLoggingMiddleware logs every request at a level matching its status code
func HTTPLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := wrapResponseWriter(w)

		next.ServeHTTP(srw, r)

		var event *zerolog.Event
		switch {
		case srw.status >= 500:
			event = log.Error()
		case srw.status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}

		requestEvent(event, r).
			Int("status", srw.status).
			Int("bytes", srw.bytes).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}
