package auth

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// ResolvedIdentity is the provider's canonical account reference. It is
// derived fresh per request and used only to parameterize challenge calls.
type ResolvedIdentity struct {
	Username string
}

// Customer is the full lookup result, used by the lookup endpoint.
type Customer struct {
	Username   string
	Attributes map[string]string
}

// Resolver maps an external CPF to exactly one provider identity.
type Resolver struct {
	provider     Provider
	userPoolID   string
	cpfAttribute string
}

func NewResolver(provider Provider, userPoolID, cpfAttribute string) *Resolver {
	return &Resolver{
		provider:     provider,
		userPoolID:   userPoolID,
		cpfAttribute: cpfAttribute,
	}
}

// Resolve classifies the provider's result set: zero matches is ErrNotFound,
// more than one is ErrConflict (duplicate CPFs are upstream data corruption
// and are never resolved by picking the first match). Provider failures
// surface as ErrUnavailable; retrying is the caller's concern.
func (r *Resolver) Resolve(ctx context.Context, cpf string) (ResolvedIdentity, error) {
	customer, err := r.Lookup(ctx, cpf)
	if err != nil {
		return ResolvedIdentity{}, err
	}
	return ResolvedIdentity{Username: customer.Username}, nil
}

// Lookup issues a single attribute-filtered query against the user pool.
func (r *Resolver) Lookup(ctx context.Context, cpf string) (Customer, error) {
	out, err := r.provider.ListUsers(ctx, &cognito.ListUsersInput{
		UserPoolId: aws.String(r.userPoolID),
		Filter:     aws.String(fmt.Sprintf("%s = %q", r.cpfAttribute, cpf)),
		// The limit is an optimization hint, not a correctness guarantee;
		// the result set size is still inspected below.
		Limit: aws.Int32(1),
	})
	if err != nil {
		return Customer{}, ErrUnavailable.WithCausef("list users: %w", err)
	}

	switch len(out.Users) {
	case 0:
		return Customer{}, ErrNotFound
	case 1:
	default:
		return Customer{}, ErrConflict.WithCausef("%d records share one CPF", len(out.Users))
	}

	user := out.Users[0]
	attrs := make(map[string]string, len(user.Attributes))
	for _, attr := range user.Attributes {
		attrs[aws.ToString(attr.Name)] = aws.ToString(attr.Value)
	}
	return Customer{
		Username:   aws.ToString(user.Username),
		Attributes: attrs,
	}, nil
}
