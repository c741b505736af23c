package ecdsarecover

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Recoverer reconstructs the public key that produced a signature. It works
// on the single configured curve and relies on the recovery id carried by
// the signature, so each call is a fixed amount of curve arithmetic rather
// than a search. The zero value is ready to use and is safe for concurrent
// use.
type Recoverer struct {
	hasher   Hasher
	verifier Verifier
}

// NewRecoverer creates a recoverer.
func NewRecoverer() *Recoverer {
	return &Recoverer{}
}

// RecoverPublicKey hashes message and recovers the signing key.
func (rc *Recoverer) RecoverPublicKey(message []byte, sig *Signature) (*PublicKey, error) {
	if len(message) == 0 {
		return nil, ErrEmptyMessage
	}
	return rc.RecoverFromDigest(rc.hasher.Digest(message), sig)
}

// RecoverFromDigest recovers the signing key from a precomputed digest.
//
// Given the signature (r, s), the recovery id and e = H(m):
//
//  1. x = r, or r + N when the overflow bit is set (fail if r + N >= P)
//  2. R = (x, y) with y chosen by the parity bit (fail if x is not on the curve)
//  3. Q = r^-1(s·R - e·G), computed as u1·G + u2·R with u1 = -e·r^-1, u2 = s·r^-1
//  4. fail if Q is the point at infinity or (r, s) does not verify under Q
//
// Q satisfies the verification equation: s^-1(e·G + r·Q) = s^-1(s·R) = R.
func (rc *Recoverer) RecoverFromDigest(digest Digest, sig *Signature) (*PublicKey, error) {
	if sig == nil {
		return nil, fmt.Errorf("%w: nil signature", ErrInvalidSignatureEncoding)
	}
	recoveryID, ok := sig.RecoveryID()
	if !ok {
		return nil, ErrMissingRecoveryID
	}
	if recoveryID > MaxRecoveryID {
		return nil, fmt.Errorf("%w: recovery id %d out of range [0, %d]", ErrInvalidSignatureEncoding, recoveryID, MaxRecoveryID)
	}
	if sig.r.IsZero() || sig.s.IsZero() {
		return nil, fmt.Errorf("%w: r and s must be non-zero", ErrInvalidSignatureEncoding)
	}

	point, err := candidatePoint(&sig.r, recoveryID)
	if err != nil {
		return nil, err
	}

	e := digest.scalar()
	w := new(secp256k1.ModNScalar).InverseValNonConst(&sig.r)
	u1 := new(secp256k1.ModNScalar).Mul2(&e, w).Negate()
	u2 := new(secp256k1.ModNScalar).Mul2(&sig.s, w)

	var u1G, u2R, q secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(u1, &u1G)
	secp256k1.ScalarMultNonConst(u2, &point, &u2R)
	secp256k1.AddNonConst(&u1G, &u2R, &q)
	if isInfinity(&q) {
		return nil, fmt.Errorf("%w: recovered point is at infinity", ErrRecoveryFailed)
	}

	q.ToAffine()
	pub := &PublicKey{key: secp256k1.NewPublicKey(&q.X, &q.Y)}

	valid, err := rc.verifier.VerifyDigest(digest, pub, sig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecoveryFailed, err)
	}
	if !valid {
		return nil, fmt.Errorf("%w: recovered key does not verify the signature", ErrRecoveryFailed)
	}
	return pub, nil
}

// candidatePoint rebuilds the nonce point R from r and the recovery id.
func candidatePoint(r *secp256k1.ModNScalar, recoveryID byte) (secp256k1.JacobianPoint, error) {
	var point secp256k1.JacobianPoint

	x := scalarToField(r)
	if recoveryID&recoveryIDOverflowBit != 0 {
		if x.IsGtOrEqPrimeMinusOrder() {
			return point, fmt.Errorf("%w: r + N is not a field element", ErrRecoveryFailed)
		}
		order := curveOrderField()
		x.Add(&order).Normalize()
	}

	var y secp256k1.FieldVal
	odd := recoveryID&recoveryIDOddBit != 0
	if !secp256k1.DecompressY(&x, odd, &y) {
		return point, fmt.Errorf("%w: r does not describe a curve point", ErrRecoveryFailed)
	}

	point.X.Set(&x).Normalize()
	point.Y.Set(&y).Normalize()
	point.Z.SetInt(1)
	return point, nil
}
