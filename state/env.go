// Package state defines the process-wide environment threaded through
// cmd/csseng via context.Context, adapted from the teacher's state/env.go
// (LocalEnv/EnvFromContext/ContextWithEnv) with the FB2-conversion-only
// fields (Rpt, KindleASIN, DefaultVignettes, ...) dropped: this engine has
// no debug-report bundle or cover/vignette pipeline, only configuration
// and logging to thread through.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/koreader/crengine-sub001/config"
)

type envKey struct{}

// LocalEnv keeps everything the CLI needs in a single place, mirroring the
// teacher's one-struct-per-process-run convention.
type LocalEnv struct {
	Cfg *config.EngineConfig
	Log *zap.Logger

	start         time.Time
	restoreStdLog func()
}

// EnvFromContext returns the LocalEnv stashed by ContextWithEnv. Like the
// teacher, it panics if called on a context that was never so decorated:
// every command handler runs under the root context cmd/csseng's main
// constructs, so this should never happen in practice.
func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	panic("localenv not found in context")
}

// ContextWithEnv returns a child of ctx carrying a freshly-initialized
// LocalEnv.
func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &LocalEnv{start: time.Now()})
}

// Uptime reports how long ago ContextWithEnv created this environment.
func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog sends the standard library's log package output through
// e.Log for the remainder of the process, restored by RestoreStdLog.
func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

// RestoreStdLog flushes e.Log and undoes RedirectStdLog, if it was called.
func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
