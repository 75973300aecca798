package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	exprand "golang.org/x/exp/rand"
)

var (
	ErrInvalidArgument    = errors.New("sampling bound must be positive")
	ErrEntropyUnavailable = errors.New("secure entropy source unavailable")
)

// RandomSource draws integers uniformly from [0, max).
type RandomSource interface {
	Uniform(max int) (int, error)
}

// SourceOptions configures NewSecureSource.
type SourceOptions struct {
	// Reader is the secure entropy source. Defaults to crypto/rand.Reader.
	Reader io.Reader
	// Strict makes NewSecureSource fail instead of falling back to a
	// pseudo-random generator.
	Strict bool
	Logger *slog.Logger
}

// SecureSource samples from a cryptographically secure reader. When the
// reader cannot be read at construction time it degrades to a seeded
// non-cryptographic PRNG and reports Secure() == false.
//
// Sampling rejects draws at or above the largest multiple of max that fits
// in 32 bits, so every value in [0, max) is equally likely. This drops the
// modulo bias of a plain uint32 % max.
type SecureSource struct {
	mu       sync.Mutex
	reader   io.Reader
	fallback *exprand.Rand
	buf      [4]byte
}

// NewSecureSource probes the entropy reader and returns a ready source.
func NewSecureSource(opts SourceOptions) (*SecureSource, error) {
	if opts.Reader == nil {
		opts.Reader = rand.Reader
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var probe [4]byte
	_, err := io.ReadFull(opts.Reader, probe[:])
	if err == nil {
		return &SecureSource{reader: opts.Reader}, nil
	}

	if opts.Strict {
		return nil, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}

	opts.Logger.Warn("secure entropy source unavailable, using non-cryptographic fallback",
		"error", err)
	return &SecureSource{
		fallback: exprand.New(exprand.NewSource(uint64(time.Now().UnixNano()))),
	}, nil
}

// Secure reports whether draws come from the cryptographic reader.
func (s *SecureSource) Secure() bool {
	return s.fallback == nil
}

// Uniform returns an integer in [0, max).
func (s *SecureSource) Uniform(max int) (int, error) {
	if max <= 0 || uint64(max) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidArgument, max)
	}

	n := uint64(max)
	limit := (math.MaxUint32 + 1) - (math.MaxUint32+1)%n

	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		v, err := s.uint32()
		if err != nil {
			return 0, err
		}
		if uint64(v) < limit {
			return int(uint64(v) % n), nil
		}
	}
}

func (s *SecureSource) uint32() (uint32, error) {
	if s.fallback != nil {
		return s.fallback.Uint32(), nil
	}
	if _, err := io.ReadFull(s.reader, s.buf[:]); err != nil {
		return 0, fmt.Errorf("reading entropy: %w", err)
	}
	return binary.LittleEndian.Uint32(s.buf[:]), nil
}
