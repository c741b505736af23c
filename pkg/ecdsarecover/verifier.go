package ecdsarecover

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Verifier checks ECDSA signatures. The zero value is ready to use and is
// safe for concurrent use.
type Verifier struct {
	hasher Hasher
}

// NewVerifier creates a verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify reports whether sig is a valid signature of message by publicKey.
//
// A well-formed signature that does not verify yields (false, nil). An
// error is returned only for an empty message or structurally invalid
// arguments; the latter wrap ErrMalformedInput. The recovery id, if any,
// is not consulted.
func (v *Verifier) Verify(message []byte, publicKey *PublicKey, sig *Signature) (bool, error) {
	if len(message) == 0 {
		return false, ErrEmptyMessage
	}
	return v.VerifyDigest(v.hasher.Digest(message), publicKey, sig)
}

// VerifyDigest verifies sig against a precomputed digest.
func (v *Verifier) VerifyDigest(digest Digest, publicKey *PublicKey, sig *Signature) (bool, error) {
	if publicKey == nil || publicKey.key == nil || !publicKey.key.IsOnCurve() {
		return false, malformed(fmt.Errorf("%w: public key is not on the curve", ErrInvalidKey))
	}
	if sig == nil || sig.r.IsZero() || sig.s.IsZero() {
		return false, malformed(fmt.Errorf("%w: r and s must be non-zero", ErrInvalidSignatureEncoding))
	}

	var q secp256k1.JacobianPoint
	publicKey.key.AsJacobian(&q)
	return verifyPoint(digest.scalar(), &sig.r, &sig.s, &q), nil
}

// verifyPoint evaluates the verification equation (GECC algorithm 4.30):
//
//	w  = s^-1 mod N
//	u1 = e·w, u2 = r·w
//	X  = u1·G + u2·Q
//	valid iff X != O and X.x mod N == r
//
// X.x < P and N < P, so X.x mod N == r means X.x is either r or r+N. Both
// are compared in Jacobian form (r·Z² == X) to skip the affine inversion.
func verifyPoint(e secp256k1.ModNScalar, r, s *secp256k1.ModNScalar, q *secp256k1.JacobianPoint) bool {
	w := new(secp256k1.ModNScalar).InverseValNonConst(s)
	u1 := new(secp256k1.ModNScalar).Mul2(&e, w)
	u2 := new(secp256k1.ModNScalar).Mul2(r, w)

	var u1G, u2Q, x secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(u1, &u1G)
	secp256k1.ScalarMultNonConst(u2, q, &u2Q)
	secp256k1.AddNonConst(&u1G, &u2Q, &x)

	if isInfinity(&x) {
		return false
	}

	z := new(secp256k1.FieldVal).SquareVal(&x.Z)
	rField := scalarToField(r)
	result := new(secp256k1.FieldVal).Mul2(&rField, z).Normalize()
	if result.Equals(&x.X) {
		return true
	}

	if rField.IsGtOrEqPrimeMinusOrder() {
		return false
	}
	order := curveOrderField()
	rField.Add(&order)
	result.Mul2(&rField, z).Normalize()
	return result.Equals(&x.X)
}

func isInfinity(p *secp256k1.JacobianPoint) bool {
	return (p.X.IsZero() && p.Y.IsZero()) || p.Z.IsZero()
}

// scalarToField converts a scalar mod N to a field element mod P.
func scalarToField(v *secp256k1.ModNScalar) secp256k1.FieldVal {
	b := v.Bytes()
	var f secp256k1.FieldVal
	f.SetBytes(&b)
	return f
}

// curveOrderField returns the group order N as a field element.
func curveOrderField() secp256k1.FieldVal {
	var f secp256k1.FieldVal
	f.SetByteSlice(secp256k1.Params().N.Bytes())
	return f
}
