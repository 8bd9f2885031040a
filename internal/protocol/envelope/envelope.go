package envelope

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

// Envelope seals and opens messages using one Provider.
type Envelope struct {
	provider crypto.Provider
	signer   *crypto.Signer
}

// New returns an Envelope backed by p.
func New(p crypto.Provider) *Envelope {
	return &Envelope{provider: p, signer: crypto.NewSigner(p)}
}

// Opened is the result of opening one sealed message.
type Opened struct {
	Plaintext string
	Status    domain.Status
	// Err is the reason for a non-verified Status.
	Err error
}

// Seal encrypts plaintext for recipient under scheme and signs it with
// sender.
func (e *Envelope) Seal(
	ctx context.Context,
	scheme domain.Scheme,
	plaintext string,
	recipient domain.EncryptionPublicKey,
	sender domain.SigningPrivateKey,
) (domain.Sealed, error) {
	if scheme == "" {
		scheme = domain.SchemeRSAOAEP
	}
	body, err := crypto.ForScheme(e.provider, scheme)
	if err != nil {
		return domain.Sealed{}, err
	}

	var ct, sig string
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		ct, err = body.Encrypt(recipient, plaintext)
		return errors.Wrap(err, "encrypt")
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		sig, err = e.signer.Sign(sender, plaintext)
		return errors.Wrap(err, "sign")
	})
	if err := g.Wait(); err != nil {
		return domain.Sealed{}, err
	}

	return domain.Sealed{Scheme: scheme, Ciphertext: ct, Signature: sig}, nil
}

// Open decrypts sealed with own and verifies it against sender.
func (e *Envelope) Open(
	own domain.EncryptionPrivateKey,
	sender domain.SigningPublicKey,
	sealed domain.Sealed,
) Opened {
	body, err := crypto.ForScheme(e.provider, sealed.Scheme)
	if err != nil {
		return Opened{Status: domain.StatusUnreadable, Err: err}
	}
	pt, err := body.Decrypt(own, sealed.Ciphertext)
	if err != nil {
		return Opened{Status: domain.StatusUnreadable, Err: err}
	}

	ok, err := e.signer.Verify(sender, sealed.Signature, pt)
	switch {
	case err != nil:
		return Opened{Plaintext: pt, Status: domain.StatusUntrusted, Err: err}
	case !ok:
		return Opened{Plaintext: pt, Status: domain.StatusUntrusted, Err: ErrSignatureInvalid}
	}
	return Opened{Plaintext: pt, Status: domain.StatusVerified}
}

// ErrSignatureInvalid records an authenticity failure on Opened.Err.
var ErrSignatureInvalid = errors.New("signature invalid")
