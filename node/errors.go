package node

import "errors"

var (
	// ErrNetworkMismatch indicates the data directory holds a deployment for another network.
	ErrNetworkMismatch = errors.New("node: deployment belongs to a different network")

	// ErrNoOwner indicates a first start without a configured coordinator owner.
	ErrNoOwner = errors.New("node: owner address required to deploy the coordinator")

	// ErrLocked indicates another process holds the data directory.
	ErrLocked = errors.New("node: data directory is in use")

	// ErrNilNode indicates a nil node was passed.
	ErrNilNode = errors.New("node: nil node")
)
