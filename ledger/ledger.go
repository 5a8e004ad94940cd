package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("ledger")

// MaxCallDepth bounds nested Call and Transfer frames within one transaction.
const MaxCallDepth = 64

// Key tags following the 20-byte namespace.
const (
	tagState   = 's'
	tagBalance = 'b'
	tagCode    = 'c'
	tagNonce   = 'n'
	tagSeq     = 'q'
	tagTime    = 't'
	tagTxCount = 'x'
)

// Contract is deployable code. Behaviour lives in Go; Code is its fingerprinted bytecode.
type Contract interface {
	Code() []byte
}

// Receiver is implemented by contracts that accept plain value transfers.
type Receiver interface {
	Contract
	Receive(tx *Tx) error
}

// Receipt describes a committed transaction.
type Receipt struct {
	Seq       uint64
	Timestamp uint64
	Events    []*Event
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the wall clock used for block timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.clock = now }
}

// Ledger executes transactions against a Store.
// Transactions are serialized; each commits as a single Store batch or not at all.
type Ledger struct {
	mu        sync.RWMutex
	store     Store
	clock     func() time.Time
	contracts map[Hash]Contract

	seq      uint64 // last event sequence
	txCount  uint64
	lastTime uint64
}

// New opens a ledger over store, restoring its counters.
func New(store Store, opts ...Option) (*Ledger, error) {
	if store == nil {
		return nil, ErrNilParam
	}
	l := &Ledger{
		store:     store,
		clock:     time.Now,
		contracts: make(map[Hash]Contract),
	}
	for _, opt := range opts {
		opt(l)
	}
	var err error
	if l.seq, err = l.metaUint64(tagSeq); err != nil {
		return nil, err
	}
	if l.txCount, err = l.metaUint64(tagTxCount); err != nil {
		return nil, err
	}
	if l.lastTime, err = l.metaUint64(tagTime); err != nil {
		return nil, err
	}
	return l, nil
}

// Close closes the underlying store.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Close()
}

// Deploy installs contract c on behalf of deployer and returns its address.
// If init is non-nil it runs as the constructor, framed at the new address
// with deployer as caller, in the same transaction as the code write.
func (l *Ledger) Deploy(deployer Address, c Contract, init func(tx *Tx) error) (Address, error) {
	if c == nil {
		return ZeroAddress, ErrNilParam
	}
	h := CodeHash(c.Code())
	l.mu.Lock()
	l.contracts[h] = c
	l.mu.Unlock()

	var addr Address
	_, err := l.Execute(deployer, deployer, 0, func(tx *Tx) error {
		nonce, err := tx.ov.uint64(key(deployer, tagNonce))
		if err != nil {
			return err
		}
		addr = contractAddress(deployer, nonce)
		tx.ov.put(key(deployer, tagNonce), u64(nonce+1))
		tx.ov.put(key(addr, tagCode), append([]byte(nil), h[:]...))
		if init == nil {
			return nil
		}
		return init(tx.At(addr))
	})
	if err != nil {
		return ZeroAddress, fmt.Errorf("ledger: deploy: %w", err)
	}
	log.Debugw("contract deployed", "address", addr.String(), "codeHash", h.Hex())
	return addr, nil
}

// Bind attaches an implementation to an already deployed address, e.g. after reopening a store.
func (l *Ledger) Bind(addr Address, c Contract) error {
	if c == nil {
		return ErrNilParam
	}
	got, err := l.CodeHashAt(addr)
	if err != nil {
		return err
	}
	if got == EmptyCodeHash {
		return fmt.Errorf("%w: nothing deployed at %s", ErrUnknownContract, addr)
	}
	want := CodeHash(c.Code())
	if got != want {
		return fmt.Errorf("%w: deployed %s, bound %s", ErrCodeMismatch, got.Hex(), want.Hex())
	}
	l.mu.Lock()
	l.contracts[want] = c
	l.mu.Unlock()
	return nil
}

// Register makes implementations callable at every address whose deployed
// code hash matches theirs, without naming the addresses.
func (l *Ledger) Register(cs ...Contract) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range cs {
		if c == nil {
			return ErrNilParam
		}
		l.contracts[CodeHash(c.Code())] = c
	}
	return nil
}

// Execute runs fn as one transaction sent by caller to target carrying value.
// The value moves from caller to target before fn runs. If fn fails every
// write, transfer and event of the transaction is discarded.
func (l *Ledger) Execute(caller, target Address, value uint64, fn func(tx *Tx) error) (*Receipt, error) {
	if fn == nil {
		return nil, ErrNilParam
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	ov := newOverlay(l.store, nil)
	tx := &Tx{l: l, ov: ov, caller: caller, self: target, value: value, now: now}
	if value > 0 {
		if err := tx.move(caller, target, value); err != nil {
			return nil, err
		}
	}
	if err := fn(tx); err != nil {
		return nil, err
	}

	seq := l.seq
	for _, ev := range ov.events {
		seq++
		ev.Seq = seq
	}
	txCount := l.txCount + 1
	b := ov.batch()
	b.Put(key(ZeroAddress, tagSeq), u64(seq))
	b.Put(key(ZeroAddress, tagTxCount), u64(txCount))
	b.Put(key(ZeroAddress, tagTime), u64(now))
	if err := l.store.Commit(b); err != nil {
		log.Errorw("commit failed", "caller", caller.String(), "error", err)
		return nil, fmt.Errorf("ledger: commit: %w", err)
	}
	l.seq, l.txCount, l.lastTime = seq, txCount, now

	r := &Receipt{Seq: txCount, Timestamp: now, Events: make([]*Event, len(ov.events))}
	for i, ev := range ov.events {
		r.Events[i] = ev.clone()
	}
	return r, nil
}

// View runs fn framed at target without committing anything.
func (l *Ledger) View(target Address, fn func(tx *Tx) error) error {
	if fn == nil {
		return ErrNilParam
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	tx := &Tx{l: l, ov: newOverlay(l.store, nil), caller: ZeroAddress, self: target, now: l.now()}
	return fn(tx)
}

// Mint credits amount to addr out of thin air. Used to fund accounts.
func (l *Ledger) Mint(to Address, amount uint64) error {
	_, err := l.Execute(ZeroAddress, to, 0, func(tx *Tx) error {
		return tx.credit(to, amount)
	})
	return err
}

// Balance returns the committed balance of addr.
func (l *Ledger) Balance(addr Address) (uint64, error) {
	var bal uint64
	err := l.View(addr, func(tx *Tx) error {
		var err error
		bal, err = tx.Balance(addr)
		return err
	})
	return bal, err
}

// CodeHashAt returns the code hash deployed at addr, or EmptyCodeHash for a plain account.
func (l *Ledger) CodeHashAt(addr Address) (Hash, error) {
	var h Hash
	err := l.View(addr, func(tx *Tx) error {
		var err error
		h, err = tx.CodeHash(addr)
		return err
	})
	return h, err
}

// Events returns committed events matching f in sequence order.
func (l *Ledger) Events(f Filter) ([]*Event, error) {
	var out []*Event
	err := l.store.ForEachEvent(func(ev *Event) error {
		if f.Match(ev) {
			out = append(out, ev)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ledger: read events: %w", err)
	}
	return out, nil
}

// TxCount returns the number of committed transactions.
func (l *Ledger) TxCount() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.txCount
}

// now returns the next block timestamp in unix seconds, never moving backwards.
func (l *Ledger) now() uint64 {
	t := l.clock().Unix()
	if t < 0 {
		t = 0
	}
	ts := uint64(t)
	if ts < l.lastTime {
		ts = l.lastTime
	}
	return ts
}

func (l *Ledger) contract(h Hash) (Contract, bool) {
	c, ok := l.contracts[h]
	return c, ok
}

func (l *Ledger) metaUint64(tag byte) (uint64, error) {
	v, err := l.store.Get(key(ZeroAddress, tag))
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ledger: read meta %q: %w", tag, err)
	}
	return decodeU64(v)
}

func key(ns Address, tag byte) []byte {
	k := make([]byte, 0, AddressSize+1)
	k = append(k, ns[:]...)
	return append(k, tag)
}

func stateKey(ns Address, field string) []byte {
	k := make([]byte, 0, AddressSize+1+len(field))
	k = append(k, ns[:]...)
	k = append(k, tagState)
	return append(k, field...)
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func decodeU64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("ledger: expected 8-byte integer, got %d bytes", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}
