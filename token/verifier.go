package token

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-rental-portal/internal/errors"
)

// Verifier checks the signature of a freshly issued token
type Verifier interface {
	Verify(ctx context.Context, raw string) error
}

// OIDCVerifier validates tokens against the API's published JSON Web Key Set
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

var _ Verifier = (*OIDCVerifier)(nil)

// NewOIDCVerifier creates a verifier backed by a remote key set. Keys are fetched
// lazily on first use, so construction never touches the network.
func NewOIDCVerifier(ctx context.Context, issuer, jwksURL string) *OIDCVerifier {
	keySet := oidc.NewRemoteKeySet(ctx, jwksURL)
	return &OIDCVerifier{
		verifier: oidc.NewVerifier(issuer, keySet, &oidc.Config{
			SkipClientIDCheck: true,
			SkipIssuerCheck:   issuer == "",
			Now:               NowTimeFunc,
		}),
	}
}

func (v *OIDCVerifier) Verify(ctx context.Context, raw string) error {
	if _, err := v.verifier.Verify(ctx, raw); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}
	return nil
}
