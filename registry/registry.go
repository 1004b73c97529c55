// Package registry maintains the account registry: two equal-depth Merkle
// subtrees whose roots hash into one registry root. Single registrations
// fill the left subtree in order. Batch registrations insert aligned
// subtrees into the right one. An account ID is the leaf's position in the
// combined tree, so left IDs are [0, 2^depth) and right IDs are
// [2^depth, 2^(depth+1)).
package registry

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/snaketh4x0r/RedditHubble/crypto"
	"github.com/snaketh4x0r/RedditHubble/log"
	"github.com/snaketh4x0r/RedditHubble/merkle"
	"github.com/snaketh4x0r/RedditHubble/metrics"
	"github.com/snaketh4x0r/RedditHubble/wire"
)

var (
	ErrRegistryFull     = errors.New("registry: subtree is full")
	ErrBatchSize        = errors.New("registry: wrong batch size")
	ErrUnknownAccount   = errors.New("registry: unknown account")
	ErrConsistencyFault = errors.New("registry: root does not match witness")
	ErrFaulted          = errors.New("registry: refusing writes after consistency fault")
	ErrJournalCorrupt   = errors.New("registry: journal corrupt")
)

// Config fixes the shape of the registry.
type Config struct {
	// Depth of each subtree. The combined tree is one level deeper.
	Depth int
	// BatchDepth is log2 of the number of keys in one RegisterBatch call.
	BatchDepth int
}

// DefaultConfig matches the deployed registry contract.
func DefaultConfig() Config {
	return Config{Depth: 31, BatchDepth: 4}
}

// Validate checks the depths are usable.
func (c Config) Validate() error {
	if c.Depth < 1 || c.Depth > merkle.MaxDepth {
		return fmt.Errorf("registry: depth %d outside [1, %d]", c.Depth, merkle.MaxDepth)
	}
	if c.BatchDepth < 0 || c.BatchDepth > c.Depth {
		return fmt.Errorf("registry: batch depth %d outside [0, %d]", c.BatchDepth, c.Depth)
	}
	return nil
}

// Registry is the local mirror of the on-chain account registry. Writes
// are serialized; reads may run concurrently with each other.
type Registry struct {
	mu        sync.RWMutex
	cfg       Config
	setSize   uint64
	left      *merkle.Tree
	right     *merkle.Tree
	nextLeft  uint64
	nextRight uint64
	faulted   bool

	journal Journal
	log     *log.Logger
	metrics *metrics.Metrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithJournal persists every registration to j and replays it in New.
func WithJournal(j Journal) Option {
	return func(r *Registry) { r.journal = j }
}

func WithLogger(l *log.Logger) Option {
	return func(r *Registry) { r.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// New creates an empty registry, or restores one from its journal.
func New(cfg Config, opts ...Option) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	left, err := merkle.New(cfg.Depth)
	if err != nil {
		return nil, err
	}
	right, err := merkle.New(cfg.Depth)
	if err != nil {
		return nil, err
	}
	r := &Registry{
		cfg:     cfg,
		setSize: uint64(1) << cfg.Depth,
		left:    left,
		right:   right,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = log.Default().Module("registry")
	}
	if r.journal != nil {
		if err := r.replay(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// PubkeyToLeaf hashes the four public key words exactly as the contract's
// keccak256(abi.encodePacked(pubkey)).
func PubkeyToLeaf(pub wire.G2) common.Hash {
	return crypto.Keccak256Hash(pub.Bytes())
}

func (r *Registry) Config() Config { return r.cfg }

// Root returns keccak256(leftRoot || rightRoot).
func (r *Registry) Root() common.Hash {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rootLocked()
}

func (r *Registry) rootLocked() common.Hash {
	return merkle.HashPair(r.left.Root(), r.right.Root())
}

// Count returns how many accounts each subtree holds.
func (r *Registry) Count() (left, right uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextLeft, r.nextRight
}

// Register appends pub to the left subtree and returns its account ID.
func (r *Registry) Register(pub wire.G2) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.faulted {
		return 0, ErrFaulted
	}
	if r.nextLeft >= r.setSize {
		return 0, fmt.Errorf("%w: left holds %d accounts", ErrRegistryFull, r.setSize)
	}
	id := r.nextLeft
	if r.journal != nil {
		if err := r.journal.Append(id, []wire.G2{pub}); err != nil {
			return 0, fmt.Errorf("registry: journal: %w", err)
		}
	}
	leaf := PubkeyToLeaf(pub)
	if err := r.left.UpdateSingle(id, leaf); err != nil {
		return 0, err
	}
	r.nextLeft++
	if err := r.checkConsistency(id, leaf); err != nil {
		return id, err
	}
	r.metrics.MarkRegistered(metrics.KindSingle, 1)
	r.log.Debug("account registered", "id", id, "root", r.rootLocked().Hex())
	return id, nil
}

// RegisterBatch inserts exactly 2^BatchDepth keys as one aligned subtree of
// the right tree and returns the first account ID.
func (r *Registry) RegisterBatch(pubs []wire.G2) (uint64, error) {
	size := uint64(1) << r.cfg.BatchDepth
	if uint64(len(pubs)) != size {
		return 0, fmt.Errorf("%w: got %d keys, want %d", ErrBatchSize, len(pubs), size)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.faulted {
		return 0, ErrFaulted
	}
	if r.nextRight+size > r.setSize {
		return 0, fmt.Errorf("%w: right holds %d accounts", ErrRegistryFull, r.setSize)
	}
	offset := r.nextRight
	first := r.setSize + offset
	if r.journal != nil {
		if err := r.journal.Append(first, pubs); err != nil {
			return 0, fmt.Errorf("registry: journal: %w", err)
		}
	}
	leaves := make([]common.Hash, len(pubs))
	for i := range pubs {
		leaves[i] = PubkeyToLeaf(pubs[i])
	}
	if err := r.right.UpdateBatch(offset, leaves); err != nil {
		return 0, err
	}
	r.nextRight += size
	for i, leaf := range leaves {
		if err := r.checkConsistency(first+uint64(i), leaf); err != nil {
			return first, err
		}
	}
	r.metrics.MarkRegistered(metrics.KindBatch, len(pubs))
	r.log.Debug("batch registered", "first", first, "size", size, "root", r.rootLocked().Hex())
	return first, nil
}

// checkConsistency recomputes the registry root from the fresh witness and
// leaf. A mismatch means the local mirror can no longer be trusted: it is
// logged, and every later write is refused.
func (r *Registry) checkConsistency(id uint64, leaf common.Hash) error {
	w, err := r.witnessLocked(id)
	if err != nil {
		return err
	}
	root := r.rootLocked()
	if merkle.Verify(root, leaf, id, w) {
		return nil
	}
	r.faulted = true
	r.log.Error("registry consistency fault", "id", id, "leaf", leaf.Hex(), "root", root.Hex())
	return fmt.Errorf("%w: account %d", ErrConsistencyFault, id)
}

// Witness returns the inclusion path of accountID against Root: depth
// siblings from the owning subtree followed by the other subtree's root.
func (r *Registry) Witness(accountID uint64) (merkle.Witness, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.witnessLocked(accountID)
}

func (r *Registry) witnessLocked(accountID uint64) (merkle.Witness, error) {
	var (
		own, other *merkle.Tree
		index      uint64
	)
	switch {
	case accountID < r.nextLeft:
		own, other, index = r.left, r.right, accountID
	case accountID >= r.setSize && accountID-r.setSize < r.nextRight:
		own, other, index = r.right, r.left, accountID-r.setSize
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAccount, accountID)
	}
	w, err := own.Witness(index)
	if err != nil {
		return nil, err
	}
	return append(w, other.Root()), nil
}

// Witnesses computes witnesses for independent accounts in parallel.
func (r *Registry) Witnesses(ctx context.Context, ids []uint64) ([]merkle.Witness, error) {
	out := make([]merkle.Witness, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, err := r.Witness(ids[i])
			if err != nil {
				return err
			}
			out[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Exists mirrors the contract's exists check: the leaf of pub must sit at
// accountID under the current root, given a depth+1 element witness.
func (r *Registry) Exists(accountID uint64, pub wire.G2, witness merkle.Witness) bool {
	if len(witness) != r.cfg.Depth+1 {
		return false
	}
	return merkle.Verify(r.Root(), PubkeyToLeaf(pub), accountID, witness)
}
