package bls

import (
	"context"
	"fmt"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/errgroup"

	"github.com/snaketh4x0r/RedditHubble/crypto"
	"github.com/snaketh4x0r/RedditHubble/log"
	"github.com/snaketh4x0r/RedditHubble/metrics"
	"github.com/snaketh4x0r/RedditHubble/wire"
)

// Scheme binds the signing operations to one domain. It is safe for
// concurrent use.
type Scheme struct {
	domain    Domain
	cacheSize int
	cache     *lru.Cache
	metrics   *metrics.Metrics
	log       *log.Logger
}

// Option configures a Scheme.
type Option func(*Scheme)

// WithCache keeps up to size message points, keyed by keccak(message).
func WithCache(size int) Option {
	return func(s *Scheme) { s.cacheSize = size }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheme) { s.metrics = m }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Scheme) { s.log = l }
}

// NewScheme returns a Scheme hashing messages under domain.
func NewScheme(domain Domain, opts ...Option) (*Scheme, error) {
	s := &Scheme{domain: domain}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = log.Default().Module("bls")
	}
	if s.cacheSize > 0 {
		c, err := lru.New(s.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("bls: message cache: %w", err)
		}
		s.cache = c
	}
	s.log.Debug("scheme ready", "domain", domain.Hex(), "cache", s.cacheSize)
	return s, nil
}

func (s *Scheme) Domain() Domain { return s.domain }

// HashToPoint hashes msg onto G1 under the scheme's domain.
func (s *Scheme) HashToPoint(msg []byte) (wire.G1, error) {
	p, err := s.hashToG1(msg)
	if err != nil {
		return wire.G1{}, err
	}
	return g1ToWire(&p), nil
}

func (s *Scheme) hashToG1(msg []byte) (bn254.G1Affine, error) {
	if s.cache == nil {
		return hashToG1(s.domain[:], msg)
	}
	key := crypto.Keccak256Hash(msg)
	if v, ok := s.cache.Get(key); ok {
		s.metrics.IncCacheHit()
		return v.(bn254.G1Affine), nil
	}
	s.metrics.IncCacheMiss()
	p, err := hashToG1(s.domain[:], msg)
	if err != nil {
		return p, err
	}
	s.cache.Add(key, p)
	return p, nil
}

// Sign returns secret * H(message) together with H(message).
func (s *Scheme) Sign(message []byte, sk SecretKey) (sig, msgPoint wire.G1, err error) {
	m, err := s.hashToG1(message)
	if err != nil {
		return sig, msgPoint, err
	}
	var sp bn254.G1Affine
	sp.ScalarMultiplication(&m, sk.bigInt())
	s.metrics.IncSignatures()
	return g1ToWire(&sp), g1ToWire(&m), nil
}

// Verify hashes message and checks sig against pub.
func (s *Scheme) Verify(sig wire.G1, pub wire.G2, message []byte) (bool, error) {
	m, err := s.HashToPoint(message)
	if err != nil {
		s.metrics.MarkVerification(false, err)
		return false, err
	}
	ok, err := VerifySingle(sig, pub, m)
	s.metrics.MarkVerification(ok, err)
	return ok, err
}

// VerifyAggregate hashes every message and checks agg against them.
func (s *Scheme) VerifyAggregate(agg wire.G1, pubs []wire.G2, messages [][]byte) (bool, error) {
	if len(pubs) != len(messages) {
		return false, fmt.Errorf("%w: %d keys, %d messages", ErrShapeMismatch, len(pubs), len(messages))
	}
	points := make([]wire.G1, len(messages))
	for i, msg := range messages {
		p, err := s.HashToPoint(msg)
		if err != nil {
			return false, err
		}
		points[i] = p
	}
	ok, err := VerifyMultiple(agg, pubs, points)
	s.metrics.MarkVerification(ok, err)
	return ok, err
}

// SignedMessage is one independent verification job.
type SignedMessage struct {
	Signature wire.G1
	PublicKey wire.G2
	Message   []byte
}

// VerifyBatch verifies independent signatures in parallel. results[i] is
// the outcome for items[i]. The first hashing or pairing error cancels the
// remaining work.
func (s *Scheme) VerifyBatch(ctx context.Context, items []SignedMessage) ([]bool, error) {
	results := make([]bool, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := s.Verify(items[i].Signature, items[i].PublicKey, items[i].Message)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			results[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.log.Debug("batch verified", "items", len(items))
	return results, nil
}
