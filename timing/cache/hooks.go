package cache

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sirupsen/logrus"
)

// HookPosAccess triggers after a cache level finishes an access. The hook
// item is an AccessInfo.
var HookPosAccess = &sim.HookPos{Name: "CacheAccess"}

// HookPosEviction triggers when a cache level replaces a valid line. The hook
// item is an EvictionInfo.
var HookPosEviction = &sim.HookPos{Name: "CacheEviction"}

// AccessInfo describes one completed access.
type AccessInfo struct {
	Level   string
	Address uint64
	Op      Op
	Hit     bool
	Latency uint64
}

// EvictionInfo describes one replaced line. Address is the address that
// filled the line.
type EvictionInfo struct {
	Level   string
	Address uint64
	Dirty   bool
}

// LogHook writes cache events to a logrus logger. Accesses are logged at trace
// level and evictions at debug level.
type LogHook struct {
	logger logrus.FieldLogger
}

// NewLogHook creates a LogHook. A nil logger means the standard logrus logger.
func NewLogHook(logger logrus.FieldLogger) *LogHook {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogHook{logger: logger}
}

// Func logs the event carried by ctx.
func (h *LogHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosAccess:
		info := ctx.Item.(AccessInfo)
		h.logger.WithFields(logrus.Fields{
			"level":   info.Level,
			"op":      info.Op.String(),
			"addr":    info.Address,
			"hit":     info.Hit,
			"latency": info.Latency,
		}).Trace("cache access")
	case HookPosEviction:
		info := ctx.Item.(EvictionInfo)
		h.logger.WithFields(logrus.Fields{
			"level": info.Level,
			"addr":  info.Address,
			"dirty": info.Dirty,
		}).Debug("cache eviction")
	}
}
