package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type write struct {
	val []byte
	del bool
}

// overlay buffers writes and events on top of a parent overlay or the store.
type overlay struct {
	store  Store
	parent *overlay
	writes map[string]write
	order  []string
	events []*Event
}

func newOverlay(store Store, parent *overlay) *overlay {
	return &overlay{store: store, parent: parent, writes: make(map[string]write)}
}

func (o *overlay) get(k []byte) ([]byte, error) {
	if w, ok := o.writes[string(k)]; ok {
		if w.del {
			return nil, ErrKeyNotFound
		}
		return w.val, nil
	}
	if o.parent != nil {
		return o.parent.get(k)
	}
	return o.store.Get(k)
}

func (o *overlay) set(k string, w write) {
	if _, ok := o.writes[k]; !ok {
		o.order = append(o.order, k)
	}
	o.writes[k] = w
}

func (o *overlay) put(k, v []byte) { o.set(string(k), write{val: v}) }

func (o *overlay) del(k []byte) { o.set(string(k), write{del: true}) }

func (o *overlay) uint64(k []byte) (uint64, error) {
	v, err := o.get(k)
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return decodeU64(v)
}

// merge folds a child overlay into its parent.
func (o *overlay) merge() {
	for _, k := range o.order {
		o.parent.set(k, o.writes[k])
	}
	o.parent.events = append(o.parent.events, o.events...)
}

func (o *overlay) batch() *Batch {
	b := &Batch{Events: o.events}
	for _, k := range o.order {
		w := o.writes[k]
		if w.del {
			b.Delete([]byte(k))
			continue
		}
		b.Put([]byte(k), w.val)
	}
	return b
}

// Tx is a contract execution frame. Storage helpers operate on the
// namespace of Self; balances and code are ledger-wide.
type Tx struct {
	l      *Ledger
	ov     *overlay
	caller Address
	self   Address
	value  uint64
	now    uint64
	depth  int
}

// Caller is the immediate sender of this frame.
func (tx *Tx) Caller() Address { return tx.caller }

// Self is the address whose storage this frame reads and writes.
func (tx *Tx) Self() Address { return tx.self }

// Value is the amount transferred into Self when this frame was entered.
func (tx *Tx) Value() uint64 { return tx.value }

// Now is the block timestamp in unix seconds.
func (tx *Tx) Now() uint64 { return tx.now }

// At returns a frame on addr sharing this transaction's writes, with Self as caller and no value.
func (tx *Tx) At(addr Address) *Tx {
	return &Tx{l: tx.l, ov: tx.ov, caller: tx.self, self: addr, now: tx.now, depth: tx.depth}
}

// Call moves value from Self to addr, then runs fn framed at addr.
// On error the callee's writes and events are discarded.
func (tx *Tx) Call(addr Address, value uint64, fn func(*Tx) error) error {
	if fn == nil {
		return ErrNilParam
	}
	if tx.depth+1 > MaxCallDepth {
		return ErrCallDepth
	}
	child := &Tx{l: tx.l, ov: newOverlay(tx.ov.store, tx.ov), caller: tx.self, self: addr, value: value, now: tx.now, depth: tx.depth + 1}
	if value > 0 {
		if err := child.move(tx.self, addr, value); err != nil {
			return err
		}
	}
	if err := fn(child); err != nil {
		return err
	}
	child.ov.merge()
	return nil
}

// Transfer pays amount from Self to to. A contract recipient must implement Receiver.
// Zero amounts are a no-op.
func (tx *Tx) Transfer(to Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	h, err := tx.CodeHash(to)
	if err != nil {
		return err
	}
	if h == EmptyCodeHash {
		return tx.move(tx.self, to, amount)
	}
	c, ok := tx.l.contract(h)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownContract, to)
	}
	r, ok := c.(Receiver)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotPayable, to)
	}
	return tx.Call(to, amount, r.Receive)
}

// Balance returns the balance of addr as seen by this transaction.
func (tx *Tx) Balance(addr Address) (uint64, error) {
	return tx.ov.uint64(key(addr, tagBalance))
}

// CodeHash returns the code hash at addr, or EmptyCodeHash for a plain account.
func (tx *Tx) CodeHash(addr Address) (Hash, error) {
	v, err := tx.ov.get(key(addr, tagCode))
	if errors.Is(err, ErrKeyNotFound) {
		return EmptyCodeHash, nil
	}
	if err != nil {
		return Hash{}, err
	}
	var h Hash
	copy(h[:], v)
	return h, nil
}

// Contract returns the implementation bound at addr.
func (tx *Tx) Contract(addr Address) (Contract, error) {
	h, err := tx.CodeHash(addr)
	if err != nil {
		return nil, err
	}
	c, ok := tx.l.contract(h)
	if !ok || h == EmptyCodeHash {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContract, addr)
	}
	return c, nil
}

// Emit records an event from Self. It is published only if the transaction commits.
func (tx *Tx) Emit(name string, attrs Attrs) {
	tx.ov.events = append(tx.ov.events, &Event{
		ID:        uuid.New(),
		Emitter:   tx.self,
		Name:      name,
		Attrs:     attrs,
		Timestamp: tx.now,
	})
}

// Get returns the raw value of field in Self's storage.
func (tx *Tx) Get(field string) ([]byte, error) {
	return tx.ov.get(stateKey(tx.self, field))
}

// Put stores a raw value under field.
func (tx *Tx) Put(field string, v []byte) {
	tx.ov.put(stateKey(tx.self, field), append([]byte(nil), v...))
}

// Delete removes field.
func (tx *Tx) Delete(field string) { tx.ov.del(stateKey(tx.self, field)) }

// Has reports whether field is set.
func (tx *Tx) Has(field string) (bool, error) {
	_, err := tx.Get(field)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Uint64 reads field as an integer; absent fields read as zero.
func (tx *Tx) Uint64(field string) (uint64, error) {
	return tx.ov.uint64(stateKey(tx.self, field))
}

// PutUint64 stores an integer field.
func (tx *Tx) PutUint64(field string, v uint64) { tx.ov.put(stateKey(tx.self, field), u64(v)) }

// Bool reads a flag; absent fields read as false.
func (tx *Tx) Bool(field string) (bool, error) {
	v, err := tx.Get(field)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(v) == 1 && v[0] == 1, nil
}

// PutBool stores a flag.
func (tx *Tx) PutBool(field string, v bool) {
	b := []byte{0}
	if v {
		b[0] = 1
	}
	tx.ov.put(stateKey(tx.self, field), b)
}

// Addr reads an address field; absent fields read as ZeroAddress.
func (tx *Tx) Addr(field string) (Address, error) {
	var a Address
	v, err := tx.Get(field)
	if errors.Is(err, ErrKeyNotFound) {
		return a, nil
	}
	if err != nil {
		return a, err
	}
	copy(a[:], v)
	return a, nil
}

// PutAddr stores an address field.
func (tx *Tx) PutAddr(field string, a Address) { tx.Put(field, a[:]) }

// Text reads a string field; absent fields read as "".
func (tx *Tx) Text(field string) (string, error) {
	v, err := tx.Get(field)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	return string(v), err
}

// PutText stores a string field.
func (tx *Tx) PutText(field, s string) { tx.Put(field, []byte(s)) }

// Decode gob-decodes field into v and reports whether it was present.
func (tx *Tx) Decode(field string, v interface{}) (bool, error) {
	data, err := tx.Get(field)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := decodeGob(data, v); err != nil {
		return false, fmt.Errorf("ledger: decode %q: %w", field, err)
	}
	return true, nil
}

// Encode gob-encodes v into field.
func (tx *Tx) Encode(field string, v interface{}) error {
	data, err := encodeGob(v)
	if err != nil {
		return fmt.Errorf("ledger: encode %q: %w", field, err)
	}
	tx.ov.put(stateKey(tx.self, field), data)
	return nil
}

// move debits from and credits to within this frame's overlay.
func (tx *Tx) move(from, to Address, amount uint64) error {
	bal, err := tx.Balance(from)
	if err != nil {
		return err
	}
	if bal < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientBalance, from, bal, amount)
	}
	tx.ov.put(key(from, tagBalance), u64(bal-amount))
	return tx.credit(to, amount)
}

func (tx *Tx) credit(to Address, amount uint64) error {
	bal, err := tx.Balance(to)
	if err != nil {
		return err
	}
	if bal+amount < bal {
		return fmt.Errorf("%w: %s", ErrBalanceOverflow, to)
	}
	tx.ov.put(key(to, tagBalance), u64(bal+amount))
	return nil
}
