// Package ethsig verifies EIP-191 personal_sign signatures produced by
// browser wallets.
package ethsig

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidAddress   = errors.New("invalid address")
)

const (
	signatureLen = 65
	addressLen   = 20
)

func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// PersonalMessageHash is keccak256("\x19Ethereum Signed Message:\n" + len(msg) + msg).
func PersonalMessageHash(msg []byte) []byte {
	prefix := "\x19Ethereum Signed Message:\n" + strconv.Itoa(len(msg))
	return Keccak256([]byte(prefix), msg)
}

// NormalizeAddress validates a 0x-prefixed 20-byte hex address and returns it
// lower-cased.
func NormalizeAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		return "", ErrInvalidAddress
	}
	raw, err := hex.DecodeString(addr[2:])
	if err != nil || len(raw) != addressLen {
		return "", ErrInvalidAddress
	}
	return "0x" + hex.EncodeToString(raw), nil
}

func PubkeyToAddress(pub *secp256k1.PublicKey) string {
	uncompressed := pub.SerializeUncompressed()
	return "0x" + hex.EncodeToString(Keccak256(uncompressed[1:])[12:])
}

// RecoverAddress returns the lower-cased address that produced sigHex over
// message. The signature is R || S || V with V in {0, 1, 27, 28}.
func RecoverAddress(message string, sigHex string) (string, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(sigHex, "0x"), "0X"))
	if err != nil || len(sig) != signatureLen {
		return "", ErrInvalidSignature
	}

	v := sig[64]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return "", ErrInvalidSignature
	}

	compact := make([]byte, signatureLen)
	compact[0] = 27 + v
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, PersonalMessageHash([]byte(message)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return PubkeyToAddress(pub), nil
}

// Verify reports whether sigHex is a personal_sign of message by address.
func Verify(message, sigHex, address string) (bool, error) {
	want, err := NormalizeAddress(address)
	if err != nil {
		return false, err
	}
	got, err := RecoverAddress(message, sigHex)
	if err != nil {
		return false, err
	}
	return got == want, nil
}

// SignPersonal produces an Ethereum-style R || S || V signature (V = 27/28)
// over message. Used by tooling and tests that play the wallet side.
func SignPersonal(key *secp256k1.PrivateKey, message string) string {
	compact := ecdsa.SignCompact(key, PersonalMessageHash([]byte(message)), false)
	sig := make([]byte, signatureLen)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return "0x" + hex.EncodeToString(sig)
}
