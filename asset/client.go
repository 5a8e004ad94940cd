package asset

import (
	"github.com/bitfsorg/libshare-go/ledger"
)

// Client executes asset operations through a ledger.
type Client struct {
	l    *ledger.Ledger
	addr ledger.Address
}

// DeployUnit deploys a Unit owned by owner.
func DeployUnit(l *ledger.Ledger, owner ledger.Address) (*Client, error) {
	addr, err := l.Deploy(owner, Unit{}, construct)
	if err != nil {
		return nil, err
	}
	return &Client{l: l, addr: addr}, nil
}

// DeployCollection deploys a Collection owned by owner.
func DeployCollection(l *ledger.Ledger, owner ledger.Address) (*Client, error) {
	addr, err := l.Deploy(owner, Collection{}, construct)
	if err != nil {
		return nil, err
	}
	return &Client{l: l, addr: addr}, nil
}

// NewClient returns a handle on an asset already deployed at addr.
func NewClient(l *ledger.Ledger, addr ledger.Address) *Client {
	return &Client{l: l, addr: addr}
}

// Address returns the asset address.
func (c *Client) Address() ledger.Address { return c.addr }

func (c *Client) exec(from ledger.Address, fn func(tx *ledger.Tx) error) error {
	_, err := c.l.Execute(from, c.addr, 0, fn)
	return err
}

func (c *Client) view(fn func(tx *ledger.Tx) error) error {
	return c.l.View(c.addr, fn)
}

// Initialize configures a unit.
func (c *Client) Initialize(from ledger.Address, p Params) error {
	return c.exec(from, func(tx *ledger.Tx) error { return Unit{}.Initialize(tx, p) })
}

// InitializeCollection configures a collection with its members.
func (c *Client) InitializeCollection(from ledger.Address, members []ledger.Address, p Params) error {
	return c.exec(from, func(tx *ledger.Tx) error { return Collection{}.Initialize(tx, members, p) })
}

// SetDistributor configures the secondary payee.
func (c *Client) SetDistributor(from ledger.Address, d Distributor) error {
	return c.exec(from, func(tx *ledger.Tx) error { return Unit{}.SetDistributor(tx, d) })
}

// TransferOwnership moves ownership to newOwner.
func (c *Client) TransferOwnership(from, newOwner ledger.Address) error {
	return c.exec(from, func(tx *ledger.Tx) error { return Unit{}.TransferOwnership(tx, newOwner) })
}

// PricePerAccess returns the base access price.
func (c *Client) PricePerAccess(tokenID uint64) (price uint64, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		price, err = Unit{}.PricePerAccess(tx, tokenID)
		return err
	})
	return price, err
}

// PricePerLicense returns the base license price.
func (c *Client) PricePerLicense() (price uint64, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		price, err = Unit{}.PricePerLicense(tx)
		return err
	})
	return price, err
}

// Owner returns the current owner.
func (c *Client) Owner() (owner ledger.Address, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		owner, err = Unit{}.Owner(tx)
		return err
	})
	return owner, err
}

// Distributor returns the configured distributor.
func (c *Client) Distributor() (d Distributor, ok bool, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		d, ok, err = Unit{}.Distributor(tx)
		return err
	})
	return d, ok, err
}

// TokenURI returns the metadata URI.
func (c *Client) TokenURI() (uri string, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		uri, err = Unit{}.TokenURI(tx)
		return err
	})
	return uri, err
}

// GrantTTL returns the grant TTL in seconds.
func (c *Client) GrantTTL() (ttl uint64, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		ttl, err = Unit{}.GrantTTL(tx)
		return err
	})
	return ttl, err
}

// LicenseTTL returns the license TTL in seconds.
func (c *Client) LicenseTTL() (ttl uint64, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		ttl, err = Unit{}.LicenseTTL(tx)
		return err
	})
	return ttl, err
}

// GrantTimestamp returns the asset-side grant record for recipient.
func (c *Client) GrantTimestamp(recipient ledger.Address) (ts uint64, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		ts, err = Unit{}.GrantTimestamp(tx, recipient)
		return err
	})
	return ts, err
}

// LicenseTimestamp returns the asset-side license record for licensee.
func (c *Client) LicenseTimestamp(licensee ledger.Address) (ts uint64, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		ts, err = Unit{}.LicenseTimestamp(tx, licensee)
		return err
	})
	return ts, err
}

// HasAccess reports whether recipient holds a live grant.
func (c *Client) HasAccess(recipient ledger.Address) (ok bool, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		ok, err = Unit{}.HasAccess(tx, recipient)
		return err
	})
	return ok, err
}

// IsLicensed reports whether licensee holds a live license.
func (c *Client) IsLicensed(licensee ledger.Address) (ok bool, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		ok, err = Unit{}.IsLicensed(tx, licensee)
		return err
	})
	return ok, err
}

// Includes reports collection membership.
func (c *Client) Includes(member ledger.Address) (ok bool, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		ok, err = Collection{}.Includes(tx, member)
		return err
	})
	return ok, err
}

// Members returns the collection member list.
func (c *Client) Members() (members []ledger.Address, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		members, err = Collection{}.Members(tx)
		return err
	})
	return members, err
}
