package auth

import (
	"context"

	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// Provider is the slice of the Cognito identity provider API this service
// consumes. *cognitoidentityprovider.Client satisfies it; tests substitute
// fakes.
type Provider interface {
	ListUsers(ctx context.Context, params *cognito.ListUsersInput, optFns ...func(*cognito.Options)) (*cognito.ListUsersOutput, error)
	AdminInitiateAuth(ctx context.Context, params *cognito.AdminInitiateAuthInput, optFns ...func(*cognito.Options)) (*cognito.AdminInitiateAuthOutput, error)
	AdminRespondToAuthChallenge(ctx context.Context, params *cognito.AdminRespondToAuthChallengeInput, optFns ...func(*cognito.Options)) (*cognito.AdminRespondToAuthChallengeOutput, error)
}
