package policy

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/awmpietro/under5-screening/internal/logger"
)

type NodeLatencyObserver interface {
	ObserveNodeLatency(nodeID string, duration time.Duration)
}

// NodeLatencyLogger writes one debug line per visited node.
type NodeLatencyLogger struct {
	log logger.Logger
}

func NewNodeLatencyLogger(log logger.Logger) *NodeLatencyLogger {
	return &NodeLatencyLogger{log: log}
}

func (l *NodeLatencyLogger) ObserveNodeLatency(nodeID string, duration time.Duration) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Debug("tier policy node", map[string]any{
		"node":        nodeID,
		"duration_ms": float64(duration.Microseconds()) / 1000.0,
	})
}

// NodeLatencyObservers fans one observation out to several observers.
type NodeLatencyObservers []NodeLatencyObserver

func (o NodeLatencyObservers) ObserveNodeLatency(nodeID string, duration time.Duration) {
	for _, obs := range o {
		if obs != nil {
			obs.ObserveNodeLatency(nodeID, duration)
		}
	}
}

// AsyncNodeLatencyObserver moves observations off the screening path. When
// the buffer is full, observations are dropped and counted.
type AsyncNodeLatencyObserver struct {
	next    NodeLatencyObserver
	events  chan nodeLatencyEvent
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type nodeLatencyEvent struct {
	nodeID   string
	duration time.Duration
}

func NewAsyncNodeLatencyObserver(next NodeLatencyObserver, buffer int) *AsyncNodeLatencyObserver {
	if buffer <= 0 {
		buffer = 1
	}

	o := &AsyncNodeLatencyObserver{
		next:   next,
		events: make(chan nodeLatencyEvent, buffer),
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for ev := range o.events {
			if o.next != nil {
				o.next.ObserveNodeLatency(ev.nodeID, ev.duration)
			}
		}
	}()

	return o
}

func (o *AsyncNodeLatencyObserver) ObserveNodeLatency(nodeID string, duration time.Duration) {
	if o == nil {
		return
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		o.dropped.Add(1)
		return
	}
	select {
	case o.events <- nodeLatencyEvent{nodeID: nodeID, duration: duration}:
	default:
		o.dropped.Add(1)
	}
}

func (o *AsyncNodeLatencyObserver) Dropped() uint64 {
	if o == nil {
		return 0
	}
	return o.dropped.Load()
}

// Close stops accepting observations and waits for the buffered ones to be
// delivered.
func (o *AsyncNodeLatencyObserver) Close() {
	if o == nil {
		return
	}
	o.once.Do(func() {
		o.mu.Lock()
		o.closed = true
		close(o.events)
		o.mu.Unlock()
		o.wg.Wait()
	})
}
