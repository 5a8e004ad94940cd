// Package node assembles a coordinator node from configuration: a bbolt
// ledger in the data directory, the coordinator deployment on it, and a
// prometheus registry with the coordinator metrics.
package node

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitfsorg/libshare-go/asset"
	"github.com/bitfsorg/libshare-go/config"
	"github.com/bitfsorg/libshare-go/fee"
	"github.com/bitfsorg/libshare-go/ledger"
	"github.com/bitfsorg/libshare-go/revshare"
	"github.com/bitfsorg/libshare-go/share"
)

var log = logging.Logger("node")

const (
	ledgerFile = "ledger.db"
	lockFile   = "node.lock"
)

// Node is an opened data directory with a live coordinator.
type Node struct {
	Config      config.Config
	Ledger      *ledger.Ledger
	Coordinator *share.Client
	Registry    *prometheus.Registry
	Deployment  *Deployment

	lock *os.File
}

// Open validates cfg, configures logging and opens the node in cfg.DataDir.
// The asset and distributor contracts shipped with this module are registered,
// so existing deployments of them are callable right after a reopen.
// On first start the coordinator is deployed for cfg.Owner using the
// configured fee and verification settings; later starts re-bind the
// recorded deployment and ignore those settings.
func Open(cfg config.Config, opts ...ledger.Option) (n *Node, err error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if err := config.SetupLogging(cfg); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("node: create data directory: %w", err)
	}

	fl, err := tryLock(filepath.Join(cfg.DataDir, lockFile))
	if err != nil {
		return nil, err
	}
	n = &Node{Config: cfg, lock: fl}
	defer func() {
		if err != nil {
			_ = n.Close()
		}
	}()

	store, err := ledger.OpenBoltStore(filepath.Join(cfg.DataDir, ledgerFile))
	if err != nil {
		return nil, fmt.Errorf("node: open ledger store: %w", err)
	}
	if n.Ledger, err = ledger.New(store, opts...); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("node: open ledger: %w", err)
	}

	if err := n.Ledger.Register(asset.Unit{}, asset.Collection{}, revshare.S2RD{}); err != nil {
		return nil, fmt.Errorf("node: register contracts: %w", err)
	}

	n.Registry = prometheus.NewRegistry()
	metrics := share.NewMetrics(cfg.MetricsNamespace, n.Registry)

	path := DeploymentPath(cfg.DataDir)
	d, err := LoadDeployment(path)
	if err != nil {
		return nil, err
	}
	if d == nil {
		if err := n.deploy(metrics, path); err != nil {
			return nil, err
		}
		return n, nil
	}

	if d.Network != cfg.Network {
		return nil, fmt.Errorf("%w: recorded %q, configured %q", ErrNetworkMismatch, d.Network, cfg.Network)
	}
	addr, err := d.Address()
	if err != nil {
		return nil, fmt.Errorf("node: deployment address: %w", err)
	}
	if n.Coordinator, err = share.Attach(n.Ledger, addr, metrics); err != nil {
		return nil, fmt.Errorf("node: attach coordinator: %w", err)
	}
	n.Deployment = d
	log.Infow("coordinator attached", "address", d.Coordinator, "network", d.Network)
	return n, nil
}

func (n *Node) deploy(metrics *share.Metrics, path string) error {
	if n.Config.Owner == "" {
		return ErrNoOwner
	}
	owner, err := ledger.ParseAddress(n.Config.Owner)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidOwner, err)
	}
	opts := share.Options{
		Fee:              fee.Config{Numerator: n.Config.Fee.Numerator, Denominator: n.Config.Fee.Denominator},
		CodeVerification: n.Config.CodeVerification,
		Metrics:          metrics,
	}
	if n.Coordinator, err = share.Deploy(n.Ledger, owner, opts); err != nil {
		return fmt.Errorf("node: deploy coordinator: %w", err)
	}
	n.Deployment = &Deployment{
		Coordinator: n.Coordinator.Address().String(),
		Owner:       owner.String(),
		Network:     n.Config.Network,
		DeployedAt:  time.Now().UTC(),
	}
	return n.Deployment.Save(path)
}

// Close closes the ledger and releases the data directory.
func (n *Node) Close() error {
	if n == nil {
		return ErrNilNode
	}
	var err error
	if n.Ledger != nil {
		err = n.Ledger.Close()
		n.Ledger = nil
	}
	releaseLock(n.lock)
	n.lock = nil
	return err
}
