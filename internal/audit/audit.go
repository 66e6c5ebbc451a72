// Package audit records security and performance events off the request
// path. Events are queued and written by a single goroutine; when the queue
// is full the event is dropped rather than stalling the caller.
package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/ephero/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EventConnection    = "CONNECTION"
	EventDisconnection = "DISCONNECTION"
	EventRoomCreation  = "ROOM_CREATION"
	EventDataSharing   = "DATA_SHARING"
	EventThreat        = "SECURITY_THREAT"
	EventRateLimit     = "RATE_LIMIT_EXCEEDED"

	eventAlert  = "ALERT"
	eventMetric = "METRIC"
	eventError  = "ERROR"
)

const (
	DefaultQueueSize     = 1024
	DefaultSlowOperation = time.Second
	DefaultAlertCooldown = time.Minute
)

type Entry struct {
	At        time.Time
	Event     string
	ClientID  domain.ConnID
	IP        string
	UserAgent string
	Action    string
	Success   bool
	Details   map[string]any
	Err       error
	Took      time.Duration
	// Threats is the running threat count, set on alerts.
	Threats   int64
}

type Options struct {
	QueueSize     int
	SlowOperation time.Duration
	AlertCooldown time.Duration
	// Logger defaults to the global logger.
	Logger *zerolog.Logger
	Now    func() time.Time
}

// Logger implements core.Auditor.
type Logger struct {
	queue    chan Entry
	out      zerolog.Logger
	slow     time.Duration
	cooldown time.Duration
	now      func() time.Time

	dropped atomic.Int64
	threats atomic.Int64

	mu        sync.Mutex
	lastAlert time.Time
}

func New(opts Options) *Logger {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.SlowOperation <= 0 {
		opts.SlowOperation = DefaultSlowOperation
	}
	if opts.AlertCooldown <= 0 {
		opts.AlertCooldown = DefaultAlertCooldown
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	out := log.Logger
	if opts.Logger != nil {
		out = *opts.Logger
	}
	return &Logger{
		queue:    make(chan Entry, opts.QueueSize),
		out:      out.With().Str("module", "audit").Logger(),
		slow:     opts.SlowOperation,
		cooldown: opts.AlertCooldown,
		now:      opts.Now,
	}
}

func (l *Logger) Connected(id domain.ConnID, ip, userAgent string) {
	l.enqueue(Entry{Event: EventConnection, ClientID: id, IP: ip, UserAgent: userAgent, Action: "websocket_connect", Success: true})
}

func (l *Logger) Disconnected(id domain.ConnID, ip string) {
	l.enqueue(Entry{Event: EventDisconnection, ClientID: id, IP: ip, Action: "websocket_disconnect", Success: true})
}

func (l *Logger) RoomCreated(id domain.ConnID, room domain.RoomID) {
	l.enqueue(Entry{
		Event:    EventRoomCreation,
		ClientID: id,
		Action:   "create_room",
		Success:  true,
		Details:  map[string]any{"roomId": string(room)},
	})
}

func (l *Logger) DataShared(id domain.ConnID, room domain.RoomID, size int) {
	l.enqueue(Entry{
		Event:    EventDataSharing,
		ClientID: id,
		Action:   "send_data",
		Success:  true,
		Details:  map[string]any{"roomId": string(room), "dataSize": size},
	})
}

// Threat records the event and raises an alert, subject to the cooldown.
func (l *Logger) Threat(id domain.ConnID, kind string, details map[string]any) {
	l.enqueue(Entry{Event: EventThreat, ClientID: id, Action: kind, Details: details})
	l.alert(kind, details)
}

func (l *Logger) RateLimited(id domain.ConnID, ip string) {
	l.enqueue(Entry{Event: EventRateLimit, ClientID: id, IP: ip, Action: "rate_limit_violation"})
}

// Operation samples the duration of a named operation. Anything slower than
// the configured threshold is escalated as a SLOW_OPERATION alert.
func (l *Logger) Operation(name string, took time.Duration) {
	if took > l.slow {
		l.alert("SLOW_OPERATION", map[string]any{"operation": name, "durationMs": took.Milliseconds()})
	}
	l.enqueue(Entry{Event: eventMetric, Action: name + "_duration", Took: took})
}

func (l *Logger) Error(err error, context string) {
	l.enqueue(Entry{Event: eventError, Action: context, Err: err})
}

// ThreatCount is the number of alerts raised, including those suppressed by
// the cooldown.
func (l *Logger) ThreatCount() int64 { return l.threats.Load() }

func (l *Logger) ResetThreatCount() { l.threats.Store(0) }

// Dropped is the number of events lost to a full queue.
func (l *Logger) Dropped() int64 { return l.dropped.Load() }

func (l *Logger) alert(kind string, details map[string]any) {
	count := l.threats.Add(1)
	now := l.now()

	l.mu.Lock()
	if !l.lastAlert.IsZero() && now.Sub(l.lastAlert) < l.cooldown {
		l.mu.Unlock()
		return
	}
	l.lastAlert = now
	l.mu.Unlock()

	l.enqueue(Entry{At: now, Event: eventAlert, Action: kind, Details: details, Threats: count})
}

func (l *Logger) enqueue(e Entry) {
	if e.At.IsZero() {
		e.At = l.now()
	}
	select {
	case l.queue <- e:
	default:
		l.dropped.Add(1)
	}
}

// Run writes queued events until ctx is done, then flushes what is left.
func (l *Logger) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case e := <-l.queue:
					l.write(e)
				default:
					return
				}
			}
		case e := <-l.queue:
			l.write(e)
		}
	}
}

func (l *Logger) write(e Entry) {
	var ev *zerolog.Event
	switch e.Event {
	case eventAlert:
		ev = l.out.Error().Int64("threat_count", e.Threats)
	case eventError:
		ev = l.out.Error().Err(e.Err)
	case eventMetric:
		ev = l.out.Debug().Dur("took", e.Took)
	case EventThreat, EventRateLimit:
		ev = l.out.Warn()
	default:
		ev = l.out.Info()
	}
	ev = ev.Str("event", e.Event).Time("at", e.At).Str("action", e.Action)
	if e.ClientID != "" {
		ev = ev.Str("client_id", string(e.ClientID)).Bool("success", e.Success)
	}
	if e.IP != "" {
		ev = ev.Str("ip", e.IP)
	}
	if e.UserAgent != "" {
		ev = ev.Str("user_agent", e.UserAgent)
	}
	if len(e.Details) > 0 {
		ev = ev.Interface("details", e.Details)
	}
	ev.Msg("audit")
}
