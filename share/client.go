package share

import (
	"github.com/bitfsorg/libshare-go/fault"
	"github.com/bitfsorg/libshare-go/fee"
	"github.com/bitfsorg/libshare-go/ledger"
)

// Options configure a coordinator deployment.
type Options struct {
	Fee              fee.Config
	CodeVerification bool
	Metrics          *Metrics
}

// DefaultOptions returns the deployment defaults: a 1/20 fee with verification on.
func DefaultOptions() Options {
	return Options{Fee: fee.Default, CodeVerification: true}
}

// Client executes coordinator operations through a ledger.
type Client struct {
	l       *ledger.Ledger
	addr    ledger.Address
	metrics *Metrics
}

// Deploy installs a coordinator owned by owner.
func Deploy(l *ledger.Ledger, owner ledger.Address, opts Options) (*Client, error) {
	if l == nil {
		return nil, ledger.ErrNilParam
	}
	addr, err := l.Deploy(owner, Coordinator{}, construct(opts.Fee, opts.CodeVerification))
	if err != nil {
		return nil, err
	}
	log.Infow("coordinator deployed", "address", addr.String(), "owner", owner.String(),
		"feeNumerator", opts.Fee.Numerator, "feeDenominator", opts.Fee.Denominator)
	return &Client{l: l, addr: addr, metrics: opts.Metrics}, nil
}

// Attach binds the coordinator implementation to an existing deployment.
func Attach(l *ledger.Ledger, addr ledger.Address, m *Metrics) (*Client, error) {
	if err := l.Bind(addr, Coordinator{}); err != nil {
		return nil, err
	}
	return &Client{l: l, addr: addr, metrics: m}, nil
}

// Address returns the coordinator address.
func (c *Client) Address() ledger.Address { return c.addr }

// Ledger returns the ledger the client executes against.
func (c *Client) Ledger() *ledger.Ledger { return c.l }

func (c *Client) exec(op string, from ledger.Address, value uint64, fn func(tx *ledger.Tx) error) (*ledger.Receipt, error) {
	r, err := c.l.Execute(from, c.addr, value, fn)
	if err != nil {
		c.metrics.observeRejection(op, err)
		log.Debugw("operation rejected", "op", op, "from", from.String(), "code", fault.Code(err), "error", err)
		return nil, err
	}
	return r, nil
}

func (c *Client) view(fn func(tx *ledger.Tx) error) error {
	return c.l.View(c.addr, fn)
}

// AddApprovedBuild approves one build.
func (c *Client) AddApprovedBuild(from ledger.Address, b ApprovedBuild) error {
	_, err := c.exec("addApprovedBuild", from, 0, func(tx *ledger.Tx) error {
		return Coordinator{}.AddApprovedBuild(tx, b)
	})
	return err
}

// AddApprovedBuilds approves entries atomically.
func (c *Client) AddApprovedBuilds(from ledger.Address, entries []BuildKey, compilerTarget, compilerVersion string, author ledger.Address) error {
	_, err := c.exec("addApprovedBuilds", from, 0, func(tx *ledger.Tx) error {
		return Coordinator{}.AddApprovedBuilds(tx, entries, compilerTarget, compilerVersion, author)
	})
	return err
}

// IsApprovedBuildHash reports trust-set membership.
func (c *Client) IsApprovedBuildHash(codeHash ledger.Hash, t BuildType) (ok bool, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		ok, err = Coordinator{}.IsApprovedBuildHash(tx, codeHash, t)
		return err
	})
	return ok, err
}

// ApprovedBuild returns recorded build metadata.
func (c *Client) ApprovedBuild(codeHash ledger.Hash, t BuildType) (b ApprovedBuild, ok bool, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		b, ok, err = Coordinator{}.ApprovedBuild(tx, codeHash, t)
		return err
	})
	return b, ok, err
}

// ApprovedBuilds lists the trust set.
func (c *Client) ApprovedBuilds() (bs []ApprovedBuild, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		bs, err = Coordinator{}.ApprovedBuilds(tx)
		return err
	})
	return bs, err
}

// SetCodeVerificationEnabled toggles build verification.
func (c *Client) SetCodeVerificationEnabled(from ledger.Address, enabled bool) error {
	_, err := c.exec("setCodeVerificationEnabled", from, 0, func(tx *ledger.Tx) error {
		return Coordinator{}.SetCodeVerificationEnabled(tx, enabled)
	})
	return err
}

// CodeVerificationEnabled reports whether verification is enforced.
func (c *Client) CodeVerificationEnabled() (ok bool, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		ok, err = Coordinator{}.CodeVerificationEnabled(tx)
		return err
	})
	return ok, err
}

// SetTransactionFee replaces the protocol fee.
func (c *Client) SetTransactionFee(from ledger.Address, numerator, denominator uint64) error {
	_, err := c.exec("setTransactionFee", from, 0, func(tx *ledger.Tx) error {
		return Coordinator{}.SetTransactionFee(tx, numerator, denominator)
	})
	return err
}

// TransactionFee returns the protocol fee.
func (c *Client) TransactionFee() (cfg fee.Config, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		cfg, err = Coordinator{}.TransactionFee(tx)
		return err
	})
	return cfg, err
}

// GrossPricePerAccess quotes Access.
func (c *Client) GrossPricePerAccess(assetAddr ledger.Address, tokenID uint64) (gross uint64, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		gross, err = Coordinator{}.GrossPricePerAccess(tx, assetAddr, tokenID)
		return err
	})
	return gross, err
}

// GrossPricePerLicense quotes License.
func (c *Client) GrossPricePerLicense(licensor ledger.Address) (gross uint64, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		gross, err = Coordinator{}.GrossPricePerLicense(tx, licensor)
		return err
	})
	return gross, err
}

// Access pays value for access to tokenID of assetAddr.
func (c *Client) Access(from, assetAddr ledger.Address, tokenID, value uint64) (*ledger.Receipt, error) {
	r, err := c.exec("access", from, value, func(tx *ledger.Tx) error {
		return Coordinator{}.Access(tx, assetAddr, tokenID)
	})
	if err != nil {
		return nil, err
	}
	c.metrics.observeAccess(value)
	log.Debugw("access granted", "asset", assetAddr.String(), "recipient", from.String(), "value", value)
	return r, nil
}

// License pays value to license licensor into licensee.
func (c *Client) License(from, licensor, licensee ledger.Address, value uint64) (*ledger.Receipt, error) {
	r, err := c.exec("license", from, value, func(tx *ledger.Tx) error {
		return Coordinator{}.License(tx, licensor, licensee)
	})
	if err != nil {
		return nil, err
	}
	c.metrics.observeLicense(value)
	log.Debugw("license granted", "licensor", licensor.String(), "licensee", licensee.String(), "value", value)
	return r, nil
}

// Withdraw empties the treasury to the owner and returns the amount.
func (c *Client) Withdraw(from ledger.Address) (uint64, error) {
	var amount uint64
	_, err := c.exec("withdraw", from, 0, func(tx *ledger.Tx) error {
		var err error
		amount, err = Coordinator{}.Withdraw(tx)
		return err
	})
	if err != nil {
		return 0, err
	}
	c.metrics.observeWithdraw(amount)
	log.Infow("treasury withdrawn", "recipient", from.String(), "value", amount)
	return amount, nil
}

// TreasuryBalance returns the retained fees.
func (c *Client) TreasuryBalance() (uint64, error) {
	return c.l.Balance(c.addr)
}

// GrantTimestamp returns the coordinator-side grant record.
func (c *Client) GrantTimestamp(assetAddr, recipient ledger.Address) (ts uint64, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		ts, err = Coordinator{}.GrantTimestamp(tx, assetAddr, recipient)
		return err
	})
	return ts, err
}

// LicenseTimestamp returns the coordinator-side license record.
func (c *Client) LicenseTimestamp(licensor, licensee ledger.Address) (ts uint64, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		ts, err = Coordinator{}.LicenseTimestamp(tx, licensor, licensee)
		return err
	})
	return ts, err
}

// Counters returns the access counters.
func (c *Client) Counters() (cs Counters, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		cs, err = Coordinator{}.Counters(tx)
		return err
	})
	return cs, err
}

// Owner returns the coordinator owner.
func (c *Client) Owner() (owner ledger.Address, err error) {
	err = c.view(func(tx *ledger.Tx) error {
		owner, err = Coordinator{}.Owner(tx)
		return err
	})
	return owner, err
}
