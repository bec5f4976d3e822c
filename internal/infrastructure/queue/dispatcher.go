package queue

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/crazyimage/task-system/internal/core/domain"
	"github.com/crazyimage/task-system/internal/core/ports"
	"github.com/crazyimage/task-system/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	publishTimeout = 10 * time.Second
)

// Dispatcher routes task events to a fixed set of workers sharded by task id,
// so events for the same task reach the sink in the order they were enqueued.
type Dispatcher struct {
	workers []chan domain.TaskEvent
	sink    ports.TaskEventSink
	log     zerolog.Logger
	wg      sync.WaitGroup

	// mu guards closed. Enqueue holds the read lock while sending so Close
	// cannot close a channel under it.
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.TaskEventSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.TaskEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TaskEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Close once their queue is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands event to the worker responsible for its task. It never
// blocks: when that worker's queue is full, or the dispatcher is closed, the
// event is dropped.
func (d *Dispatcher) Enqueue(event domain.TaskEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	idx := d.shardIndex(event.TaskID)
	if d.closed {
		metrics.TaskEventsDroppedTotal.Inc()
		d.log.Warn().
			Int64("task_id", event.TaskID).
			Str("type", string(event.Type)).
			Msg("task event dropped, dispatcher closed")
		return
	}

	select {
	case d.workers[idx] <- event:
		metrics.TaskEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.TaskEventsDroppedTotal.Inc()
		d.log.Warn().
			Int64("task_id", event.TaskID).
			Str("type", string(event.Type)).
			Int("worker_id", idx).
			Msg("task event dropped, queue full")
	}
}

// Close stops accepting events and waits for the workers to drain their
// queues. Events enqueued afterwards are dropped. Calling Close twice is safe.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a task id deterministically to a worker index.
func (d *Dispatcher) shardIndex(taskID int64) int {
	if taskID < 0 {
		taskID = -taskID
	}
	return int(taskID % int64(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.TaskEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.TaskEventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.publish(ctx, id, event)
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, worker int, event domain.TaskEvent) {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	start := time.Now()
	err := d.sink.Publish(pubCtx, event)
	metrics.TaskEventPublishDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.TaskEventsPublishedTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Int64("task_id", event.TaskID).
			Str("type", string(event.Type)).
			Int("worker_id", worker).
			Msg("task event publish failed")
		return
	}
	metrics.TaskEventsPublishedTotal.WithLabelValues("ok").Inc()
}
