package registry

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/ethereum/go-ethereum/common"

	"github.com/snaketh4x0r/RedditHubble/wire"
)

// Journal persists registrations so a registry survives restarts.
type Journal interface {
	// Append durably records pubs under consecutive IDs starting at first.
	// Either every key is recorded or none is.
	Append(first uint64, pubs []wire.G2) error
	// Replay calls fn for every recorded account in ascending ID order.
	Replay(fn func(id uint64, pub wire.G2) error) error
	Close() error
}

var accountPrefix = []byte("acct/")

// PebbleJournal stores one key per account: "acct/" followed by the
// big-endian account ID, holding the 128-byte public key.
type PebbleJournal struct {
	db *pebble.DB
}

// OpenPebbleJournal opens or creates a journal in dir. A nil fs uses the
// operating system's filesystem.
func OpenPebbleJournal(dir string, fs vfs.FS) (*PebbleJournal, error) {
	opts := &pebble.Options{}
	if fs != nil {
		opts.FS = fs
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("registry: open journal: %w", err)
	}
	return &PebbleJournal{db: db}, nil
}

func accountKey(id uint64) []byte {
	key := make([]byte, len(accountPrefix)+8)
	copy(key, accountPrefix)
	binary.BigEndian.PutUint64(key[len(accountPrefix):], id)
	return key
}

func (j *PebbleJournal) Append(first uint64, pubs []wire.G2) error {
	batch := j.db.NewBatch()
	defer batch.Close()
	for i := range pubs {
		if err := batch.Set(accountKey(first+uint64(i)), pubs[i].Bytes(), nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

func (j *PebbleJournal) Replay(fn func(id uint64, pub wire.G2) error) error {
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: accountPrefix,
		UpperBound: prefixUpperBound(accountPrefix),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		if len(key) != len(accountPrefix)+8 {
			return fmt.Errorf("%w: key %x", ErrJournalCorrupt, key)
		}
		pub, err := wire.G2FromBytes(iter.Value())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrJournalCorrupt, err)
		}
		if err := fn(binary.BigEndian.Uint64(key[len(accountPrefix):]), pub); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (j *PebbleJournal) Close() error { return j.db.Close() }

// prefixUpperBound returns the smallest key greater than every key with
// the given prefix.
func prefixUpperBound(prefix []byte) []byte {
	upper := append([]byte(nil), prefix...)
	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper[:i+1]
		}
	}
	return nil
}

// replay rebuilds both subtrees from the journal.
func (r *Registry) replay() error {
	var left, right []common.Hash
	err := r.journal.Replay(func(id uint64, pub wire.G2) error {
		leaf := PubkeyToLeaf(pub)
		switch {
		case id < r.setSize && id == uint64(len(left)):
			left = append(left, leaf)
		case id >= r.setSize && id-r.setSize == uint64(len(right)):
			right = append(right, leaf)
		default:
			return fmt.Errorf("%w: unexpected account %d", ErrJournalCorrupt, id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if batch := 1 << r.cfg.BatchDepth; len(right)%batch != 0 {
		return fmt.Errorf("%w: %d right accounts is not a whole number of batches", ErrJournalCorrupt, len(right))
	}
	if err := r.left.UpdateBatch(0, left); err != nil {
		return err
	}
	if err := r.right.UpdateBatch(0, right); err != nil {
		return err
	}
	r.nextLeft, r.nextRight = uint64(len(left)), uint64(len(right))
	r.metrics.SetAccounts(len(left) + len(right))
	r.log.Info("registry restored", "left", len(left), "right", len(right), "root", r.rootLocked().Hex())
	return nil
}
