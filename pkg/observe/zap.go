package observe

import (
	"go.uber.org/zap"

	"github.com/geseq/instancepool"
)

type zapObserver struct {
	logger *zap.Logger
}

// Zap logs anomalies with structured fields. Exhaustion is expected under
// load and logged at info; over-recycling is a caller bug and logged at warn.
func Zap(logger *zap.Logger) instancepool.Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapObserver{logger: logger}
}

func (z *zapObserver) Observe(a instancepool.Anomaly) {
	fields := []zap.Field{
		zap.String("pool", a.Pool),
		zap.Int("unrecycled", a.Unrecycled),
		zap.Int("available", a.Available),
	}

	switch a.Kind {
	case instancepool.AnomalyExhausted:
		z.logger.Info("pool exhausted", append(fields, zap.Int("allocated", a.Allocated))...)
	case instancepool.AnomalyOverRecycled:
		z.logger.Warn("more instances recycled than obtained", fields...)
	default:
		z.logger.Warn("unknown pool anomaly", append(fields, zap.Stringer("kind", a.Kind))...)
	}
}
