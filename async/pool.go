package async

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/hasbyte1/go-bcrypt/bcrypt"
)

// Operation names used in logs and metric labels.
const (
	opGenerateSalt = "generate_salt"
	opHash         = "hash"
	opVerify       = "verify"
	opExtractCost  = "extract_cost"
)

// Options configures a [Pool].
type Options struct {
	// Workers bounds concurrent computations. Zero means runtime.NumCPU().
	Workers int

	// Version is the revision of salts the pool generates: 2b or 2y.
	// The zero value selects 2b.
	Version bcrypt.Version

	// Rand supplies salt bytes. Nil means crypto/rand.
	Rand io.Reader

	// Logger receives per-operation debug logs. Nil disables logging.
	Logger *zap.Logger

	// Registerer receives the pool's collectors. Nil means the default
	// Prometheus registry.
	Registerer prometheus.Registerer

	// Namespace prefixes metric names. Empty means "bcrypt".
	Namespace string
}

// Result carries the outcome of one submission.
type Result[T any] struct {
	Value T
	Err   error
}

// Stats is a snapshot of pool counters.
type Stats struct {
	// InFlight is the number of computations holding a worker slot.
	InFlight int64
	// Completed counts computations that ran, successfully or not.
	Completed uint64
	// Failed counts completed computations that returned an error.
	Failed uint64
	// Abandoned counts results delivered after the caller's context ended.
	Abandoned uint64
}

// Pool runs bcrypt computations with a bounded number of worker slots.
//
// All methods are safe for concurrent use. After [Pool.Close] every new
// submission receives [ErrClosed].
type Pool struct {
	sem     *semaphore.Weighted
	workers int
	version bcrypt.Version
	rand    io.Reader
	log     *zap.Logger
	metrics *metrics

	stateMu sync.RWMutex
	closed  bool
	wg      sync.WaitGroup

	inFlight  atomic.Int64
	completed atomic.Uint64
	failed    atomic.Uint64
	abandoned atomic.Uint64
}

// New builds a Pool from opts.
func New(opts Options) (*Pool, error) {
	workers := opts.Workers
	if workers < 0 {
		return nil, fmt.Errorf("async: workers must not be negative, got %d", workers)
	}
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	version := opts.Version
	if version == bcrypt.Version2 {
		version = bcrypt.Version2b
	}
	if version != bcrypt.Version2b && version != bcrypt.Version2y {
		return nil, fmt.Errorf("async: salts cannot be generated for version %q", version)
	}

	m, err := newMetrics(opts.Registerer, opts.Namespace)
	if err != nil {
		return nil, fmt.Errorf("async: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Pool{
		sem:     semaphore.NewWeighted(int64(workers)),
		workers: workers,
		version: version,
		rand:    opts.Rand,
		log:     log.Named("bcrypt.pool"),
		metrics: m,
	}, nil
}

// Workers returns the number of worker slots.
func (p *Pool) Workers() int { return p.workers }

// GenerateSalt produces a fresh encoded salt at cost.
func (p *Pool) GenerateSalt(ctx context.Context, cost int) <-chan Result[string] {
	return submit(ctx, p, opGenerateSalt, func() (string, error) {
		return p.salt(cost)
	})
}

// Hash computes the encoded hash of secret with saltSpec, which may be a
// bare salt or a complete hash. secret is copied before Hash returns.
func (p *Pool) Hash(ctx context.Context, secret []byte, saltSpec string) <-chan Result[string] {
	s := bytes.Clone(secret)
	return submit(ctx, p, opHash, func() (string, error) {
		return bcrypt.HashToEncoded(s, saltSpec)
	})
}

// HashWithCost generates a salt at cost and hashes secret with it.
// secret is copied before HashWithCost returns.
func (p *Pool) HashWithCost(ctx context.Context, secret []byte, cost int) <-chan Result[string] {
	s := bytes.Clone(secret)
	return submit(ctx, p, opHash, func() (string, error) {
		salt, err := p.salt(cost)
		if err != nil {
			return "", err
		}
		return bcrypt.HashToEncoded(s, salt)
	})
}

// Verify reports whether secret matches encodedHash. secret is copied
// before Verify returns.
func (p *Pool) Verify(ctx context.Context, secret []byte, encodedHash string) <-chan Result[bool] {
	s := bytes.Clone(secret)
	return submit(ctx, p, opVerify, func() (bool, error) {
		return bcrypt.Verify(s, encodedHash)
	})
}

// ExtractCost reads the work factor from encodedHash.
func (p *Pool) ExtractCost(ctx context.Context, encodedHash string) <-chan Result[int] {
	return submit(ctx, p, opExtractCost, func() (int, error) {
		return bcrypt.ExtractCost(encodedHash)
	})
}

// HashAll hashes every secret at cost and returns the hashes in input order.
// The first failure cancels the remaining secrets that have not started.
func (p *Pool) HashAll(ctx context.Context, secrets [][]byte, cost int) ([]string, error) {
	out := make([]string, len(secrets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, secret := range secrets {
		g.Go(func() error {
			h, err := Await(gctx, p.HashWithCost(gctx, secret, cost))
			if err != nil {
				return fmt.Errorf("secret %d: %w", i, err)
			}
			out[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		InFlight:  p.inFlight.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Abandoned: p.abandoned.Load(),
	}
}

// Close stops accepting work and waits for submitted work to finish.
// Calling Close more than once is safe.
func (p *Pool) Close() {
	p.stateMu.Lock()
	p.closed = true
	p.stateMu.Unlock()

	p.wg.Wait()
}

// Await blocks until ch delivers a result or ctx ends.
func Await[T any](ctx context.Context, ch <-chan Result[T]) (T, error) {
	select {
	case r := <-ch:
		return r.Value, r.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (p *Pool) salt(cost int) (string, error) {
	s, err := bcrypt.NewSalt(cost, p.rand)
	if err != nil {
		return "", err
	}
	s.Version = p.version
	return s.String(), nil
}

// submit schedules fn on p and returns a channel that receives exactly one
// result.
func submit[T any](ctx context.Context, p *Pool, op string, fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)

	p.stateMu.RLock()
	if p.closed {
		p.stateMu.RUnlock()
		p.metrics.observe(op, resultRejected, 0)
		ch <- Result[T]{Err: ErrClosed}
		return ch
	}
	p.wg.Add(1)
	p.stateMu.RUnlock()

	go func() {
		defer p.wg.Done()

		if err := acquire(ctx, p.sem); err != nil {
			p.metrics.observe(op, resultCanceled, 0)
			p.log.Debug("operation canceled before start", zap.String("op", op), zap.Error(err))
			ch <- Result[T]{Err: err}
			return
		}
		defer p.sem.Release(1)

		p.inFlight.Inc()
		p.metrics.inFlight.Inc()
		start := time.Now()

		v, err := run(op, fn)

		elapsed := time.Since(start)
		p.metrics.inFlight.Dec()
		p.inFlight.Dec()
		p.completed.Inc()

		result := resultOK
		if err != nil {
			result = resultError
			p.failed.Inc()
		}
		p.metrics.observe(op, result, elapsed)
		p.log.Debug("operation finished",
			zap.String("op", op),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			p.abandoned.Inc()
			p.log.Warn("result abandoned by caller", zap.String("op", op), zap.Error(ctx.Err()))
		}
		ch <- Result[T]{Value: v, Err: err}
	}()

	return ch
}

// acquire takes one slot, failing if ctx has already ended even when a
// slot is free.
func acquire(ctx context.Context, sem *semaphore.Weighted) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return sem.Acquire(ctx, 1)
}

// run calls fn and converts a panic into an error.
func run[T any](op string, fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("async: %s panicked: %v\n%s", op, r, debug.Stack())
		}
	}()
	return fn()
}
