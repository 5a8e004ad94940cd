package ledger

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tipJar accepts payments and counts them.
type tipJar struct{}

func (tipJar) Code() []byte { return []byte("tip-jar-v1") }

func (tipJar) Receive(tx *Tx) error {
	n, err := tx.Uint64("tips")
	if err != nil {
		return err
	}
	tx.PutUint64("tips", n+1)
	tx.Emit("Tip", Attrs{}.U("value", tx.Value()).A("from", tx.Caller()))
	return nil
}

// vault accepts nothing.
type vault struct{}

func (vault) Code() []byte { return []byte("vault-v1") }

// grumpy rejects every payment after touching its storage.
type grumpy struct{}

func (grumpy) Code() []byte { return []byte("grumpy-v1") }

func (grumpy) Receive(tx *Tx) error {
	tx.PutBool("touched", true)
	return errors.New("go away")
}

func addr(b byte) Address {
	var a Address
	for i := range a {
		a[i] = b
	}
	return a
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := New(NewMemStore())
	require.NoError(t, err)
	return l
}

func TestMintAndBalance(t *testing.T) {
	l := newTestLedger(t)
	alice := addr(1)

	require.NoError(t, l.Mint(alice, 500))
	require.NoError(t, l.Mint(alice, 250))

	bal, err := l.Balance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(750), bal)

	bal, err = l.Balance(addr(2))
	require.NoError(t, err)
	assert.Zero(t, bal)
}

func TestMint_Overflow(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Mint(addr(1), ^uint64(0)))
	err := l.Mint(addr(1), 1)
	assert.ErrorIs(t, err, ErrBalanceOverflow)
}

func TestExecute_ValueMovesBeforeBody(t *testing.T) {
	l := newTestLedger(t)
	alice, bob := addr(1), addr(2)
	require.NoError(t, l.Mint(alice, 100))

	_, err := l.Execute(alice, bob, 40, func(tx *Tx) error {
		bal, err := tx.Balance(bob)
		require.NoError(t, err)
		assert.Equal(t, uint64(40), bal)
		assert.Equal(t, alice, tx.Caller())
		assert.Equal(t, bob, tx.Self())
		assert.Equal(t, uint64(40), tx.Value())
		return nil
	})
	require.NoError(t, err)

	a, _ := l.Balance(alice)
	b, _ := l.Balance(bob)
	assert.Equal(t, uint64(60), a)
	assert.Equal(t, uint64(40), b)
}

func TestExecute_InsufficientBalance(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.Execute(addr(1), addr(2), 1, func(*Tx) error { return nil })
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestExecute_RollbackOnError(t *testing.T) {
	l := newTestLedger(t)
	alice, bob := addr(1), addr(2)
	require.NoError(t, l.Mint(alice, 100))
	before := l.TxCount()

	boom := errors.New("boom")
	_, err := l.Execute(alice, bob, 30, func(tx *Tx) error {
		tx.PutUint64("counter", 7)
		tx.Emit("Touched", nil)
		require.NoError(t, tx.Transfer(addr(3), 10))
		return boom
	})
	require.ErrorIs(t, err, boom)

	a, _ := l.Balance(alice)
	b, _ := l.Balance(bob)
	c, _ := l.Balance(addr(3))
	assert.Equal(t, uint64(100), a)
	assert.Zero(t, b)
	assert.Zero(t, c)
	assert.Equal(t, before, l.TxCount())

	events, err := l.Events(Filter{Name: "Touched"})
	require.NoError(t, err)
	assert.Empty(t, events)

	require.NoError(t, l.View(bob, func(tx *Tx) error {
		n, err := tx.Uint64("counter")
		assert.Zero(t, n)
		return err
	}))
}

func TestDeployAndTransferToReceiver(t *testing.T) {
	l := newTestLedger(t)
	alice := addr(1)
	require.NoError(t, l.Mint(alice, 100))

	jar, err := l.Deploy(alice, tipJar{}, nil)
	require.NoError(t, err)
	assert.False(t, jar.IsZero())

	h, err := l.CodeHashAt(jar)
	require.NoError(t, err)
	assert.Equal(t, CodeHash(tipJar{}.Code()), h)

	r, err := l.Execute(alice, alice, 0, func(tx *Tx) error {
		return tx.Transfer(jar, 25)
	})
	require.NoError(t, err)
	require.Len(t, r.Events, 1)
	assert.Equal(t, "Tip", r.Events[0].Name)
	assert.Equal(t, jar, r.Events[0].Emitter)
	assert.Equal(t, "25", r.Events[0].Attr("value"))
	assert.Equal(t, alice.String(), r.Events[0].Attr("from"))

	bal, _ := l.Balance(jar)
	assert.Equal(t, uint64(25), bal)
	require.NoError(t, l.View(jar, func(tx *Tx) error {
		n, err := tx.Uint64("tips")
		assert.Equal(t, uint64(1), n)
		return err
	}))
}

func TestDeploy_DistinctAddresses(t *testing.T) {
	l := newTestLedger(t)
	a1, err := l.Deploy(addr(1), tipJar{}, nil)
	require.NoError(t, err)
	a2, err := l.Deploy(addr(1), tipJar{}, nil)
	require.NoError(t, err)
	a3, err := l.Deploy(addr(2), tipJar{}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a1, a2)
	assert.NotEqual(t, a1, a3)
}

func TestTransfer_NotPayable(t *testing.T) {
	l := newTestLedger(t)
	alice := addr(1)
	require.NoError(t, l.Mint(alice, 100))
	v, err := l.Deploy(alice, vault{}, nil)
	require.NoError(t, err)

	_, err = l.Execute(alice, alice, 0, func(tx *Tx) error { return tx.Transfer(v, 1) })
	assert.ErrorIs(t, err, ErrNotPayable)

	// zero transfers never reach the recipient
	_, err = l.Execute(alice, alice, 0, func(tx *Tx) error { return tx.Transfer(v, 0) })
	assert.NoError(t, err)
}

func TestCall_ChildRollbackKeepsParent(t *testing.T) {
	l := newTestLedger(t)
	alice := addr(1)
	require.NoError(t, l.Mint(alice, 100))
	g, err := l.Deploy(alice, grumpy{}, nil)
	require.NoError(t, err)

	_, err = l.Execute(alice, alice, 0, func(tx *Tx) error {
		tx.PutBool("parent", true)
		assert.Error(t, tx.Transfer(g, 10))
		return nil
	})
	require.NoError(t, err)

	bal, _ := l.Balance(g)
	assert.Zero(t, bal)
	require.NoError(t, l.View(g, func(tx *Tx) error {
		touched, err := tx.Bool("touched")
		assert.False(t, touched)
		return err
	}))
	require.NoError(t, l.View(alice, func(tx *Tx) error {
		ok, err := tx.Bool("parent")
		assert.True(t, ok)
		return err
	}))
}

func TestCall_DepthLimit(t *testing.T) {
	l := newTestLedger(t)
	var recurse func(tx *Tx) error
	recurse = func(tx *Tx) error { return tx.Call(tx.Self(), 0, recurse) }
	_, err := l.Execute(addr(1), addr(1), 0, recurse)
	assert.ErrorIs(t, err, ErrCallDepth)
}

func TestDeploy_Constructor(t *testing.T) {
	l := newTestLedger(t)
	alice := addr(1)
	jar, err := l.Deploy(alice, tipJar{}, func(tx *Tx) error {
		assert.Equal(t, alice, tx.Caller())
		tx.PutAddr("owner", tx.Caller())
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, l.View(jar, func(tx *Tx) error {
		owner, err := tx.Addr("owner")
		assert.Equal(t, alice, owner)
		return err
	}))

	boom := errors.New("boom")
	_, err = l.Deploy(alice, tipJar{}, func(*Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestBind(t *testing.T) {
	l := newTestLedger(t)
	jar, err := l.Deploy(addr(1), tipJar{}, nil)
	require.NoError(t, err)

	assert.NoError(t, l.Bind(jar, tipJar{}))
	assert.ErrorIs(t, l.Bind(jar, vault{}), ErrCodeMismatch)
	assert.ErrorIs(t, l.Bind(addr(9), tipJar{}), ErrUnknownContract)
	assert.ErrorIs(t, l.Bind(jar, nil), ErrNilParam)
}

func TestTimestampsAreMonotonic(t *testing.T) {
	clock := time.Unix(2000, 0)
	l, err := New(NewMemStore(), WithClock(func() time.Time { return clock }))
	require.NoError(t, err)

	r1, err := l.Execute(addr(1), addr(1), 0, func(*Tx) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), r1.Timestamp)

	clock = time.Unix(1000, 0)
	r2, err := l.Execute(addr(1), addr(1), 0, func(*Tx) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), r2.Timestamp)
	assert.Equal(t, r1.Seq+1, r2.Seq)
}

func TestStateHelpers(t *testing.T) {
	l := newTestLedger(t)
	self := addr(4)
	type rec struct {
		A uint64
		B string
	}
	_, err := l.Execute(addr(1), self, 0, func(tx *Tx) error {
		tx.PutUint64("u", 42)
		tx.PutBool("b", true)
		tx.PutAddr("a", addr(7))
		tx.PutText("s", "hello")
		tx.Put("gone", []byte{1})
		tx.Delete("gone")
		return tx.Encode("r", rec{A: 1, B: "x"})
	})
	require.NoError(t, err)

	require.NoError(t, l.View(self, func(tx *Tx) error {
		u, _ := tx.Uint64("u")
		b, _ := tx.Bool("b")
		a, _ := tx.Addr("a")
		s, _ := tx.Text("s")
		assert.Equal(t, uint64(42), u)
		assert.True(t, b)
		assert.Equal(t, addr(7), a)
		assert.Equal(t, "hello", s)

		has, err := tx.Has("gone")
		require.NoError(t, err)
		assert.False(t, has)

		var r rec
		found, err := tx.Decode("r", &r)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, rec{A: 1, B: "x"}, r)

		found, err = tx.Decode("missing", &r)
		require.NoError(t, err)
		assert.False(t, found)
		return nil
	}))
}

func TestView_DiscardsWrites(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.View(addr(1), func(tx *Tx) error {
		tx.PutUint64("x", 1)
		return nil
	}))
	require.NoError(t, l.View(addr(1), func(tx *Tx) error {
		has, err := tx.Has("x")
		assert.False(t, has)
		return err
	}))
}

func TestEventsFilter(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.Execute(addr(1), addr(2), 0, func(tx *Tx) error {
		tx.Emit("A", Attrs{}.S("k", "1"))
		tx.Emit("B", Attrs{}.S("k", "2"))
		tx.At(addr(3)).Emit("A", Attrs{}.S("k", "3"))
		return nil
	})
	require.NoError(t, err)

	all, err := l.Events(Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, ev := range all {
		assert.Equal(t, uint64(i+1), ev.Seq)
	}

	as, _ := l.Events(Filter{Name: "A"})
	assert.Len(t, as, 2)
	fromThree, _ := l.Events(Filter{Emitter: addr(3)})
	require.Len(t, fromThree, 1)
	assert.Equal(t, "3", fromThree[0].Attr("k"))
	k2, _ := l.Events(Filter{Attrs: map[string]string{"k": "2"}})
	require.Len(t, k2, 1)
	assert.Equal(t, "B", k2[0].Name)
}

func TestBoltStore_ReopenPreservesState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := OpenBoltStore(path)
	require.NoError(t, err)
	l, err := New(store)
	require.NoError(t, err)
	alice := addr(1)
	require.NoError(t, l.Mint(alice, 100))
	jar, err := l.Deploy(alice, tipJar{}, nil)
	require.NoError(t, err)
	_, err = l.Execute(alice, alice, 0, func(tx *Tx) error { return tx.Transfer(jar, 5) })
	require.NoError(t, err)
	count := l.TxCount()
	require.NoError(t, l.Close())

	store, err = OpenBoltStore(path)
	require.NoError(t, err)
	l, err = New(store)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	assert.Equal(t, count, l.TxCount())
	bal, err := l.Balance(jar)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), bal)

	// implementation must be rebound before it can receive again
	_, err = l.Execute(alice, alice, 0, func(tx *Tx) error { return tx.Transfer(jar, 5) })
	assert.ErrorIs(t, err, ErrUnknownContract)
	require.NoError(t, l.Bind(jar, tipJar{}))
	_, err = l.Execute(alice, alice, 0, func(tx *Tx) error { return tx.Transfer(jar, 5) })
	require.NoError(t, err)

	tips, err := l.Events(Filter{Name: "Tip"})
	require.NoError(t, err)
	require.Len(t, tips, 2)
	assert.Less(t, tips[0].Seq, tips[1].Seq)
}

func TestRegister_ServesDeployedCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := OpenBoltStore(path)
	require.NoError(t, err)
	l, err := New(store)
	require.NoError(t, err)
	alice := addr(1)
	require.NoError(t, l.Mint(alice, 100))
	jar1, err := l.Deploy(alice, tipJar{}, nil)
	require.NoError(t, err)
	jar2, err := l.Deploy(alice, tipJar{}, nil)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	store, err = OpenBoltStore(path)
	require.NoError(t, err)
	l, err = New(store)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	require.NoError(t, l.Register(tipJar{}, vault{}))
	for _, jar := range []Address{jar1, jar2} {
		_, err = l.Execute(alice, alice, 0, func(tx *Tx) error { return tx.Transfer(jar, 3) })
		require.NoError(t, err)
		bal, err := l.Balance(jar)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), bal)
	}

	assert.ErrorIs(t, l.Register(nil), ErrNilParam)
}
