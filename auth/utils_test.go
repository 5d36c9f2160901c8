package auth_test

import (
	"context"

	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

type fakeProvider struct {
	listUsers func(*cognito.ListUsersInput) (*cognito.ListUsersOutput, error)
	initiate  func(*cognito.AdminInitiateAuthInput) (*cognito.AdminInitiateAuthOutput, error)
	respond   func(*cognito.AdminRespondToAuthChallengeInput) (*cognito.AdminRespondToAuthChallengeOutput, error)
}

func (f *fakeProvider) ListUsers(ctx context.Context, in *cognito.ListUsersInput, _ ...func(*cognito.Options)) (*cognito.ListUsersOutput, error) {
	return f.listUsers(in)
}

func (f *fakeProvider) AdminInitiateAuth(ctx context.Context, in *cognito.AdminInitiateAuthInput, _ ...func(*cognito.Options)) (*cognito.AdminInitiateAuthOutput, error) {
	return f.initiate(in)
}

func (f *fakeProvider) AdminRespondToAuthChallenge(ctx context.Context, in *cognito.AdminRespondToAuthChallengeInput, _ ...func(*cognito.Options)) (*cognito.AdminRespondToAuthChallengeOutput, error) {
	return f.respond(in)
}
