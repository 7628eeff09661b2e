package receipt

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"xdao.co/settle/keys"
)

// VerifySignature verifies the receipt CRYPTO signature, if present.
//
// Returns (true, nil) if the receipt is signed and the signature verifies.
// Returns (false, nil) if the receipt is not signed (empty CRYPTO section).
// Returns (false, err) for malformed, non-canonical, or invalid signatures.
//
// Verification requires canonical receipt bytes; non-canonical inputs are
// rejected.
func VerifySignature(receiptBytes []byte) (bool, error) {
	canon, err := Canonicalize(receiptBytes)
	if err != nil {
		return false, fmt.Errorf("canonical receipt required: %w", err)
	}

	cryptoLines, err := sectionLines(canon, "CRYPTO")
	if err != nil {
		return false, err
	}
	if len(cryptoLines) == 0 {
		return false, nil
	}

	sigAlg, hasAlg, err := singleFieldFromSection(canon, "CRYPTO", "Signature-Alg")
	if err != nil {
		return false, err
	}
	hashAlg, hasHash, err := singleFieldFromSection(canon, "CRYPTO", "Hash-Alg")
	if err != nil {
		return false, err
	}
	issuerKey, hasKey, err := singleFieldFromSection(canon, "CRYPTO", "Issuer-Key")
	if err != nil {
		return false, err
	}
	sigB64, hasSig, err := singleFieldFromSection(canon, "CRYPTO", "Signature")
	if err != nil {
		return false, err
	}

	// Partially populated CRYPTO is invalid.
	if !(hasKey && hasAlg && hasHash && hasSig) {
		return false, errors.New("CRYPTO: incomplete signature fields")
	}

	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return false, fmt.Errorf("CRYPTO: invalid Signature encoding: %w", err)
	}

	scope, err := signatureScope(canon)
	if err != nil {
		return false, err
	}
	digest, err := keys.DigestFor(hashAlg, scope)
	if err != nil {
		return false, fmt.Errorf("CRYPTO: %w", err)
	}

	switch sigAlg {
	case "ed25519":
		pub, err := parseIssuerKey(issuerKey, "ed25519")
		if err != nil {
			return false, err
		}
		if len(pub) != ed25519.PublicKeySize {
			return false, errors.New("CRYPTO: invalid Issuer-Key length")
		}
		if len(sig) != ed25519.SignatureSize {
			return false, errors.New("CRYPTO: invalid Signature length")
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), digest, sig) {
			return false, errors.New("CRYPTO: signature did not verify")
		}
		return true, nil
	case "dilithium3":
		raw, err := parseIssuerKey(issuerKey, "dilithium3")
		if err != nil {
			return false, err
		}
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(raw); err != nil {
			return false, errors.New("CRYPTO: invalid dilithium3 Issuer-Key")
		}
		if len(sig) != mode3.SignatureSize {
			return false, errors.New("CRYPTO: invalid Signature length")
		}
		if !mode3.Verify(&pk, digest, sig) {
			return false, errors.New("CRYPTO: signature did not verify")
		}
		return true, nil
	default:
		return false, fmt.Errorf("CRYPTO: unsupported Signature-Alg %q", sigAlg)
	}
}

func parseIssuerKey(s, wantAlg string) ([]byte, error) {
	alg, enc, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("CRYPTO: invalid Issuer-Key %q", s)
	}
	if alg != wantAlg {
		return nil, fmt.Errorf("CRYPTO: Issuer-Key algorithm %q does not match Signature-Alg %q", alg, wantAlg)
	}
	b, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, fmt.Errorf("CRYPTO: invalid Issuer-Key encoding: %w", err)
	}
	return b, nil
}
