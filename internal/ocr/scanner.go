// ABOUTME: Label scanner that runs recognition and reports a transient status line.
// ABOUTME: The status clears itself a few seconds after each scan finishes.
package ocr

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Status messages shown while scanning.
const (
	StatusProcessing = "Processing image..."
	StatusExtracted  = "Text extracted!"
	StatusFailed     = "Could not read text from image."
)

// DefaultClearAfter is how long a final status stays visible.
const DefaultClearAfter = 3 * time.Second

// Scanner guesses medication names from label photos.
type Scanner struct {
	rec        Recognizer
	logger     *log.Logger
	clearAfter time.Duration

	mu       sync.Mutex
	status   string
	gen      int
	onStatus func(string)
}

// NewScanner creates a scanner around a recognizer.
func NewScanner(rec Recognizer, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scanner{rec: rec, logger: logger, clearAfter: DefaultClearAfter}
}

// SetClearAfter changes how long a final status stays visible.
func (s *Scanner) SetClearAfter(d time.Duration) {
	s.mu.Lock()
	s.clearAfter = d
	s.mu.Unlock()
}

// OnStatus registers a callback for every status change, including the clear.
func (s *Scanner) OnStatus(fn func(string)) {
	s.mu.Lock()
	s.onStatus = fn
	s.mu.Unlock()
}

// Status returns the current status line.
func (s *Scanner) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Scan recognizes the image and returns the guessed name.
// Recognition failures are logged and reported through the status line.
func (s *Scanner) Scan(ctx context.Context, imagePath string) (string, error) {
	s.setStatus(StatusProcessing)

	text, err := s.rec.Recognize(ctx, imagePath)
	if err != nil {
		s.logger.Error("ocr failed", "image", imagePath, "err", err)
		s.finish(StatusFailed)
		return "", err
	}

	name := GuessName(text)
	s.finish(StatusExtracted)
	return name, nil
}

func (s *Scanner) setStatus(status string) int {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.status = status
	fn := s.onStatus
	s.mu.Unlock()

	if fn != nil {
		fn(status)
	}
	return gen
}

func (s *Scanner) finish(status string) {
	gen := s.setStatus(status)

	s.mu.Lock()
	after := s.clearAfter
	s.mu.Unlock()

	time.AfterFunc(after, func() {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.status = ""
		fn := s.onStatus
		s.mu.Unlock()

		if fn != nil {
			fn("")
		}
	})
}
