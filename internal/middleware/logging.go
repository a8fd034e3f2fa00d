package middleware

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader: заголовок с идентификатором запроса.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

var (
	sugar = zap.NewNop().Sugar()

	requestCount atomic.Int64
	errorCount   atomic.Int64
)

// SetLogger задаёт логгер для мидлвари логирования.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		sugar = l
	}
}

// Counters возвращает число обработанных запросов и ответов с кодом >= 400.
func Counters() (requests, errors int64) {
	return requestCount.Load(), errorCount.Load()
}

// GetRequestID достаёт идентификатор запроса из контекста.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	if r.responseData.status == 0 {
		r.responseData.status = http.StatusOK
	}
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	if r.responseData.status == 0 {
		r.responseData.status = statusCode
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

// WithLogging логирует запрос и ответ, проставляет X-Request-ID и считает запросы.
func WithLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		data := &responseData{}
		lw := &loggingResponseWriter{ResponseWriter: w, responseData: data}
		h.ServeHTTP(lw, r)

		if data.status == 0 {
			data.status = http.StatusOK
		}
		requestCount.Add(1)
		if data.status >= http.StatusBadRequest {
			errorCount.Add(1)
		}

		sugar.Infow("request",
			"request_id", id,
			"uri", r.RequestURI,
			"method", r.Method,
			"status", data.status,
			"duration", time.Since(start),
			"size", data.size,
		)
	})
}
