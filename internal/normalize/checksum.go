package normalize

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/sybilglass/internal/model"
)

// Style classifies the casing of a hex payload.
// Payloads without letters carry no casing information and classify as
// lowercase, matching how wallets render all-digit addresses.
func Style(payload string) model.ChecksumStyle {
	hasLower := false
	hasUpper := false
	for _, c := range payload {
		switch {
		case c >= 'a' && c <= 'f':
			hasLower = true
		case c >= 'A' && c <= 'F':
			hasUpper = true
		}
	}
	switch {
	case hasLower && hasUpper:
		return model.ChecksumMixed
	case hasUpper:
		return model.ChecksumUpper
	default:
		return model.ChecksumLower
	}
}

// Checksum renders the canonical EIP-55 casing for a lowercase payload.
// A hex letter is uppercased when the corresponding nibble of the
// keccak-256 hash of the lowercase payload is eight or higher.
func Checksum(value string) string {
	hash := keccak256([]byte(strings.ToLower(value)))
	digest := hex.EncodeToString(hash)

	out := []byte(strings.ToLower(value))
	for i, c := range out {
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			out[i] = c - ('a' - 'A')
		}
	}
	return string(out)
}

// VerifyEIP55 reports whether a payload's casing matches its EIP-55
// checksum. All-lowercase and all-uppercase payloads make no checksum
// claim and always return false; only mixed casing is checked.
func VerifyEIP55(payload string) bool {
	if Style(payload) != model.ChecksumMixed {
		return false
	}
	return payload == Checksum(payload)
}

// keccak256 computes the legacy Keccak-256 digest used by Ethereum.
func keccak256(data []byte) []byte {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data) //nolint:errcheck // Hash writes never fail
	return hasher.Sum(nil)
}
