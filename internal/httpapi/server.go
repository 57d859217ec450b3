package httpapi

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ttsd/internal/manager"
	"ttsd/internal/text"
	"ttsd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
// *manager.Manager satisfies it.
type Service interface {
	Speak(ctx context.Context, req types.SpeakRequest) (manager.InferenceResult, error)
	Health() types.HealthSnapshot
	State() types.ModelState
	Ready() bool
	Reload(ctx context.Context) error
	SanityCheck() manager.SanityReport
	Language() string
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, metrics, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints; WAV and ZIP bodies are left alone
	// by construction since audio/* and application/zip are not in the
	// default compressible set.
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/speak", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeSpeakBody(w, r)
		if !ok {
			return
		}
		start := time.Now()
		logStart(r, "speak", req.Language, len(req.Text))

		ctx, cancel := requestContext(r)
		defer cancel()
		res, err := svc.Speak(ctx, req)
		if err != nil {
			// Client gone or server shutting down: nothing useful to write.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := writeManagerError(w, err)
			logEnd(r, "speak", status, start, err)
			return
		}

		w.Header().Set("Content-Type", "audio/wav")
		if res.Fallback {
			w.Header().Set("X-TTS-Fallback", "true")
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Audio)))
		_, _ = w.Write(res.Audio)
		logEnd(r, "speak", http.StatusOK, start, nil)
	})

	r.Post("/synthesize", func(w http.ResponseWriter, r *http.Request) {
		var req types.SynthesizeRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			writeJSONError(w, http.StatusBadRequest, "text is required")
			return
		}
		lang := req.Language
		if lang == "" {
			lang = svc.Language()
		}
		chunks := text.SplitSentences(req.Text, text.DefaultMaxSentenceLen, lang)
		if len(chunks) == 0 {
			writeJSONError(w, http.StatusBadRequest, "text is required")
			return
		}
		start := time.Now()
		logStart(r, "synthesize", lang, len(req.Text))

		ctx, cancel := requestContext(r)
		defer cancel()

		// Synthesize every sentence before writing anything so a failed
		// chunk maps to a clean error status instead of a truncated ZIP.
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		fallbacks := 0
		for i, chunk := range chunks {
			res, err := svc.Speak(ctx, types.SpeakRequest{Text: chunk, Language: lang})
			if err != nil {
				if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
					return
				}
				status := writeManagerError(w, err)
				logEnd(r, "synthesize", status, start, err)
				return
			}
			if res.Fallback {
				fallbacks++
			}
			f, err := zw.Create(fmt.Sprintf("%04d.wav", i+1))
			if err == nil {
				_, err = f.Write(res.Audio)
			}
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, "failed to build archive")
				logEnd(r, "synthesize", http.StatusInternalServerError, start, err)
				return
			}
		}
		if err := zw.Close(); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to build archive")
			logEnd(r, "synthesize", http.StatusInternalServerError, start, err)
			return
		}

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="audio_files.zip"`)
		if fallbacks > 0 {
			w.Header().Set("X-TTS-Fallback", strconv.Itoa(fallbacks))
		}
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		_, _ = w.Write(buf.Bytes())
		logEnd(r, "synthesize", http.StatusOK, start, nil)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Health()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.StateResponse{State: svc.State()}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Post("/reload", func(w http.ResponseWriter, r *http.Request) {
		if svc.State() == types.StateLoading {
			writeJSONError(w, http.StatusConflict, "load already in progress")
			return
		}
		// The reload outlives the request; tie it to the server lifetime
		// instead of the connection.
		go func() {
			if err := svc.Reload(serverBaseCtx); err != nil && !manager.IsAlreadyLoading(err) {
				logBackground("reload", err)
			}
		}()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(types.ReloadResponse{State: types.StateLoading})
	})

	r.Get("/sanity", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.SanityCheck()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeSpeakBody decodes and validates a /speak request body. It writes the
// error response itself and reports ok=false when the handler should stop.
func decodeSpeakBody(w http.ResponseWriter, r *http.Request) (types.SpeakRequest, bool) {
	var req types.SpeakRequest
	if !decodeJSONBody(w, r, &req) {
		return req, false
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSONError(w, http.StatusBadRequest, "text is required")
		return req, false
	}
	return req, true
}

// decodeJSONBody enforces the content type and body size limit, then decodes
// into dst. Errors are already written when it returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	// Limit body size (configurable, default 1MiB)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		// Oversized bodies surface here too; report 400 without size details
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// requestContext joins the request context with the server base context so
// shutdown cancels in-flight synthesis, and applies the optional handler
// deadline on top.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	if speakTimeout > 0 {
		tctx, tcancel := context.WithTimeout(ctx, time.Duration(speakTimeout)*time.Second)
		return tctx, func() { tcancel(); cancel() }
	}
	return ctx, cancel
}
