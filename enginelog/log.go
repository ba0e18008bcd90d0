// Package enginelog adapts the search's Logger interface to structured
// logging via zap.
package enginelog

import (
	"go.uber.org/zap"

	"github.com/chesscore/chesscore/engine"
)

// ZapLogger implements engine.Logger on top of a zap.SugaredLogger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// New wraps an existing zap logger. Passing nil uses zap's production
// default.
func New(base *zap.Logger) *ZapLogger {
	if base == nil {
		base, _ = zap.NewProduction()
	}
	return &ZapLogger{sugar: base.Sugar()}
}

func (l *ZapLogger) BeginSearch() {
	l.sugar.Debug("search begin")
}

func (l *ZapLogger) EndSearch() {
	l.sugar.Debug("search end")
}

func (l *ZapLogger) PrintPV(stats engine.Stats, score int32, pv []engine.Move) {
	l.sugar.Infow("pv",
		"depth", stats.Depth,
		"seldepth", stats.SelDepth,
		"nodes", stats.Nodes,
		"score", score,
		"pv", pv,
	)
}
