package middleware

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/idempotency"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const HeaderReplayed = "Idempotent-Replayed"

// Idempotency replays the stored response for a repeated Idempotency-Key
// and rejects a duplicate while the first request is still running. Only
// successful POST responses are stored. Redis failures fall through to the
// handler.
func Idempotency(store *idempotency.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idempKey := r.Header.Get(idempotency.HeaderKey)
			caller, ok := CallerFromContext(r.Context())
			if store == nil || idempKey == "" || r.Method != http.MethodPost || !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := idempotency.Key(r.URL.Path, caller.UserID, idempKey)

			cached, err := store.Get(ctx, key)
			if err != nil {
				logger.WarnContext(ctx, "idempotency lookup failed", slog.String("key", key), slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}
			if cached != nil {
				replay(w, cached)
				return
			}

			token, acquired, err := store.Acquire(ctx, key)
			if err != nil {
				logger.WarnContext(ctx, "idempotency lock failed", slog.String("key", key), slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				response.ErrorWithCode(w, http.StatusConflict, "PROCESSING", "A request with this idempotency key is still being processed", nil)
				return
			}
			defer func() {
				if err := store.Release(ctx, key, token); err != nil {
					logger.WarnContext(ctx, "idempotency unlock failed", slog.String("key", key), slog.Any("error", err))
				}
			}()

			// The first request may have finished between the lookup and the lock.
			cached, err = store.Get(ctx, key)
			if err != nil {
				logger.WarnContext(ctx, "idempotency lookup failed", slog.String("key", key), slog.Any("error", err))
			}
			if cached != nil {
				replay(w, cached)
				return
			}

			var body bytes.Buffer
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status < 200 || status >= 300 {
				return
			}

			if err := store.Save(ctx, key, idempotency.CachedResponse{
				StatusCode:  status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        body.Bytes(),
			}); err != nil {
				logger.WarnContext(ctx, "idempotency save failed", slog.String("key", key), slog.Any("error", err))
			}
		})
	}
}

func replay(w http.ResponseWriter, cached *idempotency.CachedResponse) {
	w.Header().Set("Content-Type", cached.ContentType)
	w.Header().Set(HeaderReplayed, "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}
