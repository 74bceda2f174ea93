package sensor

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"
)

// ErrUnknownSensor is returned for refresh requests naming no sensor.
var ErrUnknownSensor = errors.New("unknown sensor")

// Scheduler triggers update cycles: one goroutine per sensor on a fixed
// interval, plus explicit on-demand refresh. Sensors update independently
// of one another.
type Scheduler struct {
	sensors []*Sensor
	byName  map[string]*Sensor
	refresh map[string]chan struct{}
}

func NewScheduler(sensors []*Sensor) *Scheduler {
	byName := make(map[string]*Sensor, len(sensors))
	refresh := make(map[string]chan struct{}, len(sensors))
	for _, sn := range sensors {
		byName[sn.Name()] = sn
		refresh[sn.Name()] = make(chan struct{}, 1)
	}

	return &Scheduler{sensors: sensors, byName: byName, refresh: refresh}
}

// Snapshots returns the published state of every sensor, ordered by name.
func (s *Scheduler) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(s.sensors))
	for _, sn := range s.sensors {
		out = append(out, sn.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Scheduler) Snapshot(name string) (Snapshot, error) {
	sn, ok := s.byName[name]
	if !ok {
		return Snapshot{}, ErrUnknownSensor
	}
	return sn.Snapshot(), nil
}

// Refresh requests an immediate update. Requests arriving while a cycle is
// already pending coalesce into one.
func (s *Scheduler) Refresh(name string) error {
	ch, ok := s.refresh[name]
	if !ok {
		return ErrUnknownSensor
	}

	select {
	case ch <- struct{}{}:
	default:
	}
	return nil
}

// Run drives all sensors until ctx is canceled, then waits for in-flight
// cycles to finish.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, sn := range s.sensors {
		wg.Add(1)
		go func(sn *Sensor) {
			defer wg.Done()
			s.runSensor(ctx, sn)
		}(sn)
	}
	wg.Wait()
}

func (s *Scheduler) runSensor(ctx context.Context, sn *Sensor) {
	refresh := s.refresh[sn.Name()]

	// First cycle immediately so the sensor is not blank for a full interval.
	s.update(ctx, sn)

	ticker := time.NewTicker(sn.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.update(ctx, sn)
		case <-refresh:
			s.update(ctx, sn)
		}
	}
}

// update never lets a failed cycle disturb the schedule; failures are
// already published by the sensor and only logged here.
func (s *Scheduler) update(ctx context.Context, sn *Sensor) {
	if ctx.Err() != nil {
		return
	}

	if err := sn.Update(ctx); err != nil {
		log.Printf("sensor=%s op=cycle err=%v", sn.Name(), err)
	}
}
