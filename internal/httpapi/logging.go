package httpapi

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("TTSD_LOG_LEVEL"))

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// logStart emits one start-of-request line. Text is never logged, only its size.
func logStart(r *http.Request, route, language string, chars int) {
	if zlog != nil {
		z := zlog.Info().Str("route", route).Str("language", language).Int("chars", chars)
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg("request start")
		return
	}
	log.Printf("%s start language=%s chars=%d", route, language, chars)
}

// logEnd emits one end-of-request line with the final status.
func logEnd(r *http.Request, route string, status int, start time.Time, err error) {
	if zlog != nil {
		z := zlog.Info().Str("route", route).Int("status", status).Dur("dur", time.Since(start))
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		if err != nil {
			z = z.Err(err)
		}
		z.Msg("request end")
		return
	}
	if err != nil {
		log.Printf("%s end status=%d dur=%s err=%v", route, status, time.Since(start), err)
		return
	}
	log.Printf("%s end status=%d dur=%s", route, status, time.Since(start))
}

// logBackground reports the outcome of work detached from any request.
func logBackground(op string, err error) {
	if zlog != nil {
		zlog.Error().Err(err).Msg(op + " failed")
		return
	}
	log.Printf("%s failed: %v", op, err)
}
