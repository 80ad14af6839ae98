package battle

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/wire"
)

const (
	RecordBufferSize    = 4096                   // Circular buffer size
	MaxRecordsPerSec    = 50000                  // Global rate limit
	MaxRecordsPerRobot  = 5000                   // Per-robot rate limit per second
	RecordFlushSize     = 256                    // Entries per batch write
	RecordFlushInterval = 100 * time.Millisecond // How often to flush
)

// EntryType classifies recorder entries.
type EntryType uint8

const (
	EntryUnknown EntryType = iota
	EntryTurn
	EntryEvent
	EntryDeath
	EntryRoundEnded
	EntryBattleEnded
)

func (t EntryType) String() string {
	switch t {
	case EntryTurn:
		return "turn"
	case EntryEvent:
		return "event"
	case EntryDeath:
		return "death"
	case EntryRoundEnded:
		return "round_ended"
	case EntryBattleEnded:
		return "battle_ended"
	default:
		return "unknown"
	}
}

// MarshalText writes entry types by name in the JSON log.
func (t EntryType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// EntryVersion for backwards compatibility in replay
const EntryVersion uint8 = 1

// Entry is one line of the battle log. Delivered events carry their wire
// record, so a log can be decoded with wire.UnmarshalRecord.
type Entry struct {
	Version   uint8     `json:"version"`
	Type      EntryType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Sequence  uint64    `json:"sequence"`
	Round     int       `json:"round"`
	Turn      int64     `json:"turn"`
	Robot     string    `json:"robot,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	Record    []byte    `json:"record,omitempty"`
}

// Recorder is a bounded, rate-limited battle log with an async JSONL
// writer. Emitting never blocks the turn loop: when the writer falls
// behind the oldest entries are dropped.
type Recorder struct {
	mu        sync.Mutex
	buffer    [RecordBufferSize]Entry
	writeHead uint64
	readHead  uint64

	globalLimiter *rate.Limiter
	robotLimiters map[string]*rate.Limiter

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	out   io.Writer
	file  *os.File
	outMu sync.Mutex

	droppedCount atomic.Uint64
	totalCount   atomic.Uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		globalLimiter: rate.NewLimiter(MaxRecordsPerSec, MaxRecordsPerSec/10),
		robotLimiters: make(map[string]*rate.Limiter),
		stopChan:      make(chan struct{}),
	}
}

// Start opens path for append and begins the writer. An empty path
// records to memory only, which keeps the stats meaningful.
func (r *Recorder) Start(path string) error {
	if path == "" {
		return r.StartWriter(nil)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	r.file = f
	return r.StartWriter(f)
}

// StartWriter begins the writer goroutine writing to w.
func (r *Recorder) StartWriter(w io.Writer) error {
	if r.running.Load() {
		return nil
	}
	r.out = w
	r.running.Store(true)
	r.writerWg.Add(1)
	go r.writerLoop()
	return nil
}

// Stop flushes what is buffered and closes the file.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		if !r.running.Load() {
			return
		}
		r.running.Store(false)
		close(r.stopChan)
		r.writerWg.Wait()

		r.outMu.Lock()
		if r.file != nil {
			r.file.Close()
		}
		r.outMu.Unlock()
	})
}

// Emit adds an entry. It returns false when rate limited or stopped.
func (r *Recorder) Emit(e Entry) bool {
	if !r.running.Load() {
		return false
	}
	if !r.globalLimiter.Allow() {
		r.droppedCount.Add(1)
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e.Robot != "" && !r.robotLimiter(e.Robot).Allow() {
		r.droppedCount.Add(1)
		return false
	}

	r.writeHead++
	if r.writeHead-r.readHead > RecordBufferSize {
		// Drop oldest (rolling window)
		r.readHead++
		r.droppedCount.Add(1)
	}

	e.Version = EntryVersion
	e.Sequence = r.writeHead
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().UnixNano()
	}
	r.buffer[r.writeHead%RecordBufferSize] = e
	r.totalCount.Add(1)
	return true
}

// EmitEvent records an event delivered to a robot.
func (r *Recorder) EmitEvent(round int, turn int64, robot string, ev event.Event) bool {
	record, err := wire.AppendRecord(nil, ev)
	if err != nil {
		record = nil
	}
	return r.Emit(Entry{
		Type:   EntryEvent,
		Round:  round,
		Turn:   turn,
		Robot:  robot,
		Kind:   ev.Kind().String(),
		Record: record,
	})
}

func (r *Recorder) robotLimiter(name string) *rate.Limiter {
	l, ok := r.robotLimiters[name]
	if !ok {
		l = rate.NewLimiter(MaxRecordsPerRobot, MaxRecordsPerRobot/10)
		r.robotLimiters[name] = l
	}
	return l
}

func (r *Recorder) writerLoop() {
	defer r.writerWg.Done()

	ticker := time.NewTicker(RecordFlushInterval)
	defer ticker.Stop()

	batch := make([]Entry, 0, RecordFlushSize)
	for {
		select {
		case <-r.stopChan:
			for batch = r.collectBatch(batch[:0]); len(batch) > 0; batch = r.collectBatch(batch[:0]) {
				r.flushBatch(batch)
			}
			return
		case <-ticker.C:
			batch = r.collectBatch(batch[:0])
			if len(batch) > 0 {
				r.flushBatch(batch)
			}
		}
	}
}

func (r *Recorder) collectBatch(batch []Entry) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.readHead < r.writeHead && len(batch) < RecordFlushSize {
		r.readHead++
		batch = append(batch, r.buffer[r.readHead%RecordBufferSize])
	}
	return batch
}

// flushBatch writes entries as newline-delimited JSON.
func (r *Recorder) flushBatch(batch []Entry) {
	r.outMu.Lock()
	defer r.outMu.Unlock()

	if r.out == nil {
		return
	}
	enc := json.NewEncoder(r.out)
	for _, e := range batch {
		if err := enc.Encode(e); err != nil {
			r.droppedCount.Add(1)
		}
	}
}

// Stats returns counters for monitoring.
func (r *Recorder) Stats() map[string]any {
	r.mu.Lock()
	pending := r.writeHead - r.readHead
	r.mu.Unlock()

	return map[string]any{
		"total":   r.totalCount.Load(),
		"dropped": r.droppedCount.Load(),
		"pending": pending,
		"running": r.running.Load(),
	}
}

func (r *Recorder) DroppedCount() uint64 { return r.droppedCount.Load() }
func (r *Recorder) TotalCount() uint64   { return r.totalCount.Load() }
