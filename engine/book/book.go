// Package book gives the search optional read-only oracles: an opening
// book mapping position hashes to a suggested move, and an endgame
// table mapping position hashes to a known score. Both are advisory;
// a miss, or an entry that fails validation against the current legal
// moves, simply means the search proceeds normally.
package book

import (
	"encoding/binary"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/chesscore/chesscore/engine"
)

// Book is the plug-in oracle interface the core consumes. Implementations
// must be safe to probe between searches; they are never called inside a
// search node.
type Book interface {
	// ProbeMove returns a book move for pos, validated against pos's
	// legal moves before it is trusted.
	ProbeMove(pos *engine.Position) (engine.Move, bool)
	// ProbeScore returns a known score for pos and whether it is a
	// proven win for the side to move.
	ProbeScore(pos *engine.Position) (score int32, isWin bool, ok bool)
	Close() error
}

// key prefixes separate the move and score namespaces in one store.
const (
	prefixMove  = 'm'
	prefixScore = 's'
)

func hashKey(prefix byte, hash uint64) []byte {
	key := make([]byte, 9)
	key[0] = prefix
	binary.BigEndian.PutUint64(key[1:], hash)
	return key
}

// BadgerBook reads a pre-built Badger key-value store keyed by Zobrist
// hash. Move values are UCI strings; score values are a little-endian
// int32 followed by a win flag byte.
type BadgerBook struct {
	db *badger.DB
}

// Open opens the store at path read-only.
func Open(path string) (*BadgerBook, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "book %q", path)
	}
	return &BadgerBook{db: db}, nil
}

func (b *BadgerBook) get(prefix byte, hash uint64) ([]byte, bool) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(hashKey(prefix, hash))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return value, true
}

func (b *BadgerBook) ProbeMove(pos *engine.Position) (engine.Move, bool) {
	value, ok := b.get(prefixMove, pos.Zobrist())
	if !ok {
		return engine.NullMove, false
	}
	// An entry under a colliding hash decodes to a move that is not
	// legal here; UCIToMove rejects it and the probe reports a miss.
	m, err := pos.UCIToMove(string(value))
	if err != nil {
		return engine.NullMove, false
	}
	return m, true
}

func (b *BadgerBook) ProbeScore(pos *engine.Position) (int32, bool, bool) {
	value, ok := b.get(prefixScore, pos.Zobrist())
	if !ok || len(value) != 5 {
		return 0, false, false
	}
	score := int32(binary.LittleEndian.Uint32(value[:4]))
	return score, value[4] != 0, true
}

func (b *BadgerBook) Close() error { return b.db.Close() }
