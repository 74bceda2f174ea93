package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// SensorKey carries the owning sensor name through an update cycle.
const SensorKey ctxKey = "sensor"

// WithSensor tags ctx with the sensor name for log correlation.
func WithSensor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, SensorKey, name)
}

// Time logs the duration of an operation when the deferred closure runs.
//
//	defer obs.Time(ctx, "here.Route")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	sensor, _ := ctx.Value(SensorKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("sensor=%s op=%s dur=%dms err=%v", sensor, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("sensor=%s op=%s dur=%dms", sensor, name, dur.Milliseconds())
	}
}
