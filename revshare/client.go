package revshare

import (
	"fmt"

	"github.com/bitfsorg/libshare-go/ledger"
)

// Client executes distributor operations through a ledger.
type Client struct {
	l    *ledger.Ledger
	addr ledger.Address
}

// Deploy installs an S2RD on behalf of deployer.
func Deploy(l *ledger.Ledger, deployer ledger.Address) (*Client, error) {
	addr, err := l.Deploy(deployer, S2RD{}, construct)
	if err != nil {
		return nil, err
	}
	return &Client{l: l, addr: addr}, nil
}

// NewClient returns a handle on a distributor already deployed at addr.
func NewClient(l *ledger.Ledger, addr ledger.Address) *Client {
	return &Client{l: l, addr: addr}
}

// Address returns the distributor address.
func (c *Client) Address() ledger.Address { return c.addr }

// Initialize sets the rotation and coordinator.
func (c *Client) Initialize(from ledger.Address, recipients []ledger.Address, coordinator ledger.Address) error {
	_, err := c.l.Execute(from, c.addr, 0, func(tx *ledger.Tx) error {
		return S2RD{}.Initialize(tx, recipients, coordinator)
	})
	return err
}

// Rotation returns the committed rotation state.
func (c *Client) Rotation() (r Rotation, err error) {
	err = c.l.View(c.addr, func(tx *ledger.Tx) error {
		r, err = S2RD{}.Rotation(tx)
		return err
	})
	return r, err
}

// Recipients returns the fixed recipient list.
func (c *Client) Recipients() ([]ledger.Address, error) {
	r, err := c.Rotation()
	return r.Recipients, err
}

// Cursor returns the index of the next recipient.
func (c *Client) Cursor() (uint64, error) {
	r, err := c.Rotation()
	return r.Cursor, err
}

// Payments returns the payouts made so far, oldest first.
func (c *Client) Payments() ([]Distribution, error) {
	events, err := c.l.Events(ledger.Filter{Emitter: c.addr, Name: EventPayment})
	if err != nil {
		return nil, err
	}
	out := make([]Distribution, 0, len(events))
	for _, ev := range events {
		d, err := paymentFromEvent(ev)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func paymentFromEvent(ev *ledger.Event) (Distribution, error) {
	idx, err := ev.Uint("addressIndex")
	if err != nil {
		return Distribution{}, fmt.Errorf("revshare: event %d addressIndex: %w", ev.Seq, err)
	}
	amount, err := ev.Uint("value")
	if err != nil {
		return Distribution{}, fmt.Errorf("revshare: event %d value: %w", ev.Seq, err)
	}
	addr, err := ledger.ParseAddress(ev.Attr("recipient"))
	if err != nil {
		return Distribution{}, fmt.Errorf("revshare: event %d recipient: %w", ev.Seq, err)
	}
	return Distribution{Index: idx, Address: addr, Amount: amount}, nil
}
