package gps

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gpsclock/internal/sim"
)

// Config controls the receiver service.
//
// The BN-220 (u-blox M8030) appears on the Pi UART as /dev/serial0 or
// /dev/ttyAMA0 and outputs NMEA at 9600 baud by default.
//
// Note: this is a best-effort bring-up service; read failures surface on the
// snapshot and never bring down the main process.
//
// Device may be empty to auto-detect.
type Config struct {
	Enable bool

	// Source selects how NMEA bytes are ingested: "serial" (UART receiver)
	// or "sim" (generated track). When empty, defaults to "serial".
	Source string

	Device string
	Baud   int

	// UTCOffsetHours shifts the formatted time/date strings published on
	// snapshots. The core never computes or stores a timezone itself; this
	// value is supplied by the collaborator that owns timezone handling.
	UTCOffsetHours int

	Sim SimConfig
}

// SimConfig parameterizes the simulated receiver track.
type SimConfig struct {
	CenterLatDeg float64
	CenterLonDeg float64
	RadiusNm     float64
	Period       time.Duration
	GroundKt     int
	SatsInUse    int
	SatsInView   int

	// Interval between generated sentence batches.
	Interval time.Duration
}

// Snapshot is one immutable view of the receiver state, safe to hand to any
// consumer.
type Snapshot struct {
	Enabled   bool `json:"enabled"`
	Valid     bool `json:"valid"`
	EverValid bool `json:"ever_valid"`

	Source string `json:"source,omitempty"`
	Device string `json:"device,omitempty"`
	Baud   int    `json:"baud,omitempty"`

	Time       string  `json:"time,omitempty"`
	Date       string  `json:"date,omitempty"`
	LatDeg     float64 `json:"lat_deg,omitempty"`
	LonDeg     float64 `json:"lon_deg,omitempty"`
	Maidenhead string  `json:"maidenhead,omitempty"`
	UTM        string  `json:"utm,omitempty"`
	FixType    string  `json:"fix_type,omitempty"`
	SatsInUse  int     `json:"sats_in_use,omitempty"`
	SatsInView int     `json:"sats_in_view,omitempty"`

	CleanSentences  int `json:"clean_sentences,omitempty"`
	CRCFails        int `json:"crc_fails,omitempty"`
	ParsedSentences int `json:"parsed_sentences,omitempty"`

	LastError string `json:"last_error,omitempty"`
}

// Service drains receiver bytes in one goroutine and publishes snapshots.
type Service struct {
	cfg Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	last atomic.Value // Snapshot

	mu     sync.Mutex
	closer io.Closer
}

// New returns an unstarted service.
func New(cfg Config) *Service {
	s := &Service{cfg: cfg}
	src := sourceName(cfg.Source)
	s.last.Store(Snapshot{Enabled: cfg.Enable, Source: src, Device: cfg.Device, Baud: cfg.Baud})
	return s
}

func sourceName(src string) string {
	src = strings.ToLower(strings.TrimSpace(src))
	if src == "" {
		src = "serial"
	}
	return src
}

// Start launches the feed goroutine. It is a no-op when disabled or already
// started.
func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("gps service is nil")
	}
	if !s.cfg.Enable {
		return nil
	}
	if ctx == nil {
		return fmt.Errorf("ctx is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	switch src := sourceName(s.cfg.Source); src {
	case "sim":
		return s.startSimLocked(ctx)
	case "serial":
		return s.startSerialLocked(ctx)
	default:
		return fmt.Errorf("unknown gps source %q", src)
	}
}

func (s *Service) startSerialLocked(ctx context.Context) error {
	device := strings.TrimSpace(s.cfg.Device)
	if device == "" {
		device = autoDetectDevice()
		if device == "" {
			s.setErrorLocked("gps auto-detect failed: no /dev/serial0, /dev/ttyAMA*, /dev/ttyACM* or /dev/ttyUSB* found")
			return fmt.Errorf("gps auto-detect failed")
		}
	}

	baud := s.cfg.Baud
	if baud == 0 {
		baud = 9600
	}

	f, err := openSerial(device, baud)
	if err != nil {
		s.setErrorLocked(fmt.Sprintf("gps open failed device=%s baud=%d: %v", device, baud, err))
		return err
	}
	// Keep the file reference for Close().
	s.closer = f

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			_ = f.Close()
		}()

		log.Printf("gps enabled source=serial device=%s baud=%d", device, baud)

		sess := newSession(s.cfg.UTCOffsetHours)
		base := Snapshot{Enabled: true, Source: "serial", Device: device, Baud: baud}

		buf := make([]byte, 512)
		for {
			select {
			case <-childCtx.Done():
				return
			default:
			}

			n, err := f.Read(buf)
			if err != nil {
				s.setError(fmt.Sprintf("gps read stopped: %v", err))
				return
			}
			if sess.feed(buf[:n]) {
				s.last.Store(sess.snapshot(base))
			}
		}
	}()

	// Publish initial snapshot.
	s.last.Store(Snapshot{Enabled: true, Source: "serial", Device: device, Baud: baud})
	return nil
}

func (s *Service) startSimLocked(ctx context.Context) error {
	rcv := sim.ReceiverSim{
		CenterLatDeg: s.cfg.Sim.CenterLatDeg,
		CenterLonDeg: s.cfg.Sim.CenterLonDeg,
		RadiusNm:     s.cfg.Sim.RadiusNm,
		Period:       s.cfg.Sim.Period,
		GroundKt:     s.cfg.Sim.GroundKt,
		SatsInUse:    s.cfg.Sim.SatsInUse,
		SatsInView:   s.cfg.Sim.SatsInView,
	}
	interval := s.cfg.Sim.Interval
	if interval <= 0 {
		interval = 1 * time.Second
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		log.Printf("gps enabled source=sim center=%.4f,%.4f interval=%s",
			rcv.CenterLatDeg, rcv.CenterLonDeg, interval)

		sess := newSession(s.cfg.UTCOffsetHours)
		base := Snapshot{Enabled: true, Source: "sim"}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			var now time.Time
			select {
			case <-childCtx.Done():
				return
			case now = <-ticker.C:
			}

			updated := false
			for _, line := range rcv.Sentences(now) {
				if sess.feed([]byte(line)) {
					updated = true
				}
			}
			if updated {
				s.last.Store(sess.snapshot(base))
			}
		}
	}()

	s.last.Store(Snapshot{Enabled: true, Source: "sim"})
	return nil
}

// Close stops the feed goroutine and releases the port.
func (s *Service) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	closer := s.closer
	s.cancel = nil
	s.closer = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if closer != nil {
		_ = closer.Close()
	}
	s.wg.Wait()
}

// Snapshot returns the most recently published receiver state.
func (s *Service) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	v := s.last.Load()
	if v == nil {
		return Snapshot{}
	}
	return v.(Snapshot)
}

func (s *Service) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErrorLocked(msg)
}

func (s *Service) setErrorLocked(msg string) {
	cur := s.Snapshot()
	cur.LastError = msg
	// Do not force Valid=false here; transient read issues shouldn't flip
	// validity.
	s.last.Store(cur)
}

func autoDetectDevice() string {
	// Keep it intentionally tiny and predictable: Pi UART aliases first,
	// then USB serial adapters.
	candidates := []string{"/dev/serial0", "/dev/ttyAMA0", "/dev/ttyS0"}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyACM%d", i))
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyUSB%d", i))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
