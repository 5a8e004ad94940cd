package node

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitfsorg/libshare-go/ledger"
)

// deploymentFile is written next to the ledger database once the
// coordinator exists.
const deploymentFile = "deployment.json"

// Deployment records where the coordinator lives in a data directory.
type Deployment struct {
	Coordinator string    `json:"coordinator"` // Base58 address
	Owner       string    `json:"owner"`
	Network     string    `json:"network"`
	DeployedAt  time.Time `json:"deployed_at"`
}

// Address parses the coordinator address.
func (d *Deployment) Address() (ledger.Address, error) {
	return ledger.ParseAddress(d.Coordinator)
}

// DeploymentPath returns the deployment record location inside dataDir.
func DeploymentPath(dataDir string) string {
	return filepath.Join(dataDir, deploymentFile)
}

// LoadDeployment reads the deployment record at path. It returns nil, nil if
// nothing has been deployed yet.
func LoadDeployment(path string) (*Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("node: read deployment: %w", err)
	}
	var d Deployment
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("node: parse deployment: %w", err)
	}
	return &d, nil
}

// Save writes the record to path.
func (d *Deployment) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("node: marshal deployment: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("node: create deployment directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
