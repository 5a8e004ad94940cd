package ledger

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/bsv-blockchain/go-sdk/script"
	"golang.org/x/crypto/sha3"
)

const (
	// AddressSize is the length of an account or contract address (HASH160).
	AddressSize = 20

	// HashSize is the length of a code hash (Keccak-256).
	HashSize = 32
)

// Address identifies an account or a deployed contract.
type Address [AddressSize]byte

// ZeroAddress is the unset address.
var ZeroAddress Address

// IsZero reports whether a is the unset address.
func (a Address) IsZero() bool { return a == ZeroAddress }

// Hex returns the lowercase hex encoding of the raw address bytes.
func (a Address) Hex() string { return hex.EncodeToString(a[:]) }

// String returns the Base58Check P2PKH form of the address.
func (a Address) String() string {
	addr, err := script.NewAddressFromPublicKeyHash(a[:], true)
	if err != nil {
		return a.Hex()
	}
	return addr.AddressString
}

// ParseAddress decodes a Base58Check P2PKH address or a 40-character hex string.
func ParseAddress(s string) (Address, error) {
	var a Address
	if len(s) == 2*AddressSize {
		if b, err := hex.DecodeString(s); err == nil {
			copy(a[:], b)
			return a, nil
		}
	}
	addr, err := script.NewAddressFromString(s)
	if err != nil {
		return a, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	pkh := []byte(addr.PublicKeyHash)
	if len(pkh) != AddressSize {
		return a, fmt.Errorf("%w: public key hash is %d bytes", ErrInvalidAddress, len(pkh))
	}
	copy(a[:], pkh)
	return a, nil
}

// AddressFromPubKey derives the account address HASH160(compressed pubkey).
func AddressFromPubKey(pub *ec.PublicKey) Address {
	var a Address
	copy(a[:], bsvhash.Hash160(pub.Compressed()))
	return a
}

// NewKey generates a fresh account key and returns it with its address.
func NewKey() (*ec.PrivateKey, Address, error) {
	priv, err := ec.NewPrivateKey()
	if err != nil {
		return nil, ZeroAddress, fmt.Errorf("ledger: generate key: %w", err)
	}
	return priv, AddressFromPubKey(priv.PubKey()), nil
}

// contractAddress derives the address of the nonce-th contract deployed by deployer.
func contractAddress(deployer Address, nonce uint64) Address {
	buf := make([]byte, AddressSize+8)
	copy(buf, deployer[:])
	binary.BigEndian.PutUint64(buf[AddressSize:], nonce)
	var a Address
	copy(a[:], bsvhash.Hash160(buf))
	return a
}

// Hash is a 32-byte code fingerprint.
type Hash [HashSize]byte

// Hex returns the 0x-prefixed hex encoding of the hash.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// ParseHash decodes a 32-byte hex string with or without the 0x prefix.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("ledger: decode hash: %w", err)
	}
	if len(b) != HashSize {
		return h, fmt.Errorf("ledger: hash must be %d bytes, got %d", HashSize, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// CodeHash returns the Keccak-256 fingerprint of contract code.
func CodeHash(code []byte) Hash {
	d := sha3.NewLegacyKeccak256()
	d.Write(code)
	var h Hash
	copy(h[:], d.Sum(nil))
	return h
}

// EmptyCodeHash is the fingerprint of an account with no code (a plain wallet).
var EmptyCodeHash = CodeHash(nil)
