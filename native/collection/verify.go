package collection

import (
	"bytes"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Verify reports whether the item described by meta belongs to the
// collection configured by the descriptor.
//
// Legacy descriptors require all three checks to hold: the metadata symbol
// (trimmed of NUL padding) must equal the configured symbol, at least one
// of the item's creators must be verified and present in the configured
// creator list, and, when an allow-list root is configured, the supplied
// proof must be a valid Merkle inclusion proof for keccak256(item) against
// the root. A configured allow-list with a missing proof is a hard failure.
//
// Certified descriptors require the metadata to declare a collection
// reference that is verified and equal to the configured collection mint.
func Verify(meta *ItemMetadata, descriptor Descriptor, proof [][32]byte) error {
	if meta == nil {
		return ErrVerificationFailed
	}
	switch descriptor.Kind {
	case KindLegacy:
		if trimSymbol(meta.Symbol) != descriptor.Symbol {
			return ErrVerificationFailed
		}
		if !hasVerifiedCreator(meta.Creators, descriptor) {
			return ErrVerificationFailed
		}
		if descriptor.HasAllowlist {
			if proof == nil {
				return ErrVerificationFailed
			}
			leaf := leafHash(meta.Item[:])
			if !VerifyProof(proof, descriptor.AllowlistRoot, leaf) {
				return ErrVerificationFailed
			}
		}
		return nil
	case KindCertified:
		ref := meta.Collection
		if ref == nil || !ref.Verified || ref.Mint != descriptor.CollectionMint {
			return ErrVerificationFailed
		}
		return nil
	default:
		return ErrVerificationFailed
	}
}

func hasVerifiedCreator(creators []Creator, descriptor Descriptor) bool {
	for _, creator := range creators {
		if !creator.Verified {
			continue
		}
		for _, configured := range descriptor.VerifiedCreators {
			if creator.Address == configured {
				return true
			}
		}
	}
	return false
}

// trimSymbol strips the NUL padding fixed-width metadata stores around
// short symbols.
func trimSymbol(symbol string) string {
	return string(bytes.Trim([]byte(symbol), "\x00"))
}

// VerifyProof recomputes the Merkle root from a leaf and its sibling path.
// At each level the lexicographically smaller operand is hashed first, so
// proofs carry no left/right markers. The proof is valid only when the
// recomputed root equals the stored root exactly.
func VerifyProof(proof [][32]byte, root, leaf [32]byte) bool {
	computed := leaf
	for _, sibling := range proof {
		if bytes.Compare(computed[:], sibling[:]) <= 0 {
			computed = nodeHash(computed, sibling)
		} else {
			computed = nodeHash(sibling, computed)
		}
	}
	return computed == root
}

func leafHash(data []byte) [32]byte {
	var out [32]byte
	copy(out[:], ethcrypto.Keccak256(data))
	return out
}

func nodeHash(left, right [32]byte) [32]byte {
	var out [32]byte
	copy(out[:], ethcrypto.Keccak256(left[:], right[:]))
	return out
}

// LeafFor exposes the leaf derivation used by the allow-list so off-line
// tooling can build trees that match the verifier.
func LeafFor(item [32]byte) [32]byte {
	return leafHash(item[:])
}
