package rpc_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/go-chi/httplog"
	"github.com/mvcarvalho/cpf-auth/auth"
	"github.com/mvcarvalho/cpf-auth/config"
	"github.com/mvcarvalho/cpf-auth/o11y"
	"github.com/mvcarvalho/cpf-auth/rpc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeCognito implements auth.Provider with a small in-memory user pool and
// session store, enough to exercise the full two-phase flow end to end.
type fakeCognito struct {
	users map[string][]types.UserType // cpf -> matching records
	code  string                      // the correct challenge answer

	listErr error

	sessionSeq int
	sessions   map[string]string // session -> expected username

	listCalls     int
	initiateCalls int
	respondCalls  int
}

func newFakeCognito() *fakeCognito {
	return &fakeCognito{
		users:    map[string][]types.UserType{},
		code:     "482913",
		sessions: map[string]string{},
	}
}

func (f *fakeCognito) addUser(cpf, username string) {
	f.users[cpf] = append(f.users[cpf], types.UserType{Username: aws.String(username)})
}

func (f *fakeCognito) ListUsers(ctx context.Context, in *cognito.ListUsersInput, _ ...func(*cognito.Options)) (*cognito.ListUsersOutput, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	for cpf, users := range f.users {
		if aws.ToString(in.Filter) == fmt.Sprintf("custom:cpf = %q", cpf) {
			return &cognito.ListUsersOutput{Users: users}, nil
		}
	}
	return &cognito.ListUsersOutput{}, nil
}

func (f *fakeCognito) AdminInitiateAuth(ctx context.Context, in *cognito.AdminInitiateAuthInput, _ ...func(*cognito.Options)) (*cognito.AdminInitiateAuthOutput, error) {
	f.initiateCalls++
	f.sessionSeq++
	session := fmt.Sprintf("sess-%d", f.sessionSeq)
	f.sessions[session] = in.AuthParameters["USERNAME"]
	return &cognito.AdminInitiateAuthOutput{
		ChallengeName:       types.ChallengeNameTypeCustomChallenge,
		Session:             aws.String(session),
		ChallengeParameters: map[string]string{"USERNAME": in.AuthParameters["USERNAME"]},
	}, nil
}

func (f *fakeCognito) AdminRespondToAuthChallenge(ctx context.Context, in *cognito.AdminRespondToAuthChallengeInput, _ ...func(*cognito.Options)) (*cognito.AdminRespondToAuthChallengeOutput, error) {
	f.respondCalls++
	username, ok := f.sessions[aws.ToString(in.Session)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NotAuthorizedException", Message: "Invalid session for the user."}
	}
	if in.ChallengeResponses["USERNAME"] != username || in.ChallengeResponses["ANSWER"] != f.code {
		return nil, &smithy.GenericAPIError{Code: "CodeMismatchException", Message: "Invalid code provided, please try again."}
	}
	return &cognito.AdminRespondToAuthChallengeOutput{
		AuthenticationResult: &types.AuthenticationResultType{
			AccessToken:  aws.String("access-token"),
			IdToken:      aws.String("id-token"),
			RefreshToken: aws.String("refresh-token"),
			ExpiresIn:    3600,
			TokenType:    aws.String("Bearer"),
		},
	}, nil
}

func initRPC(t *testing.T, provider auth.Provider, options ...func(*config.Config)) *rpc.RPC {
	t.Helper()

	cfg := &config.Config{
		Region: "us-east-1",
		Cognito: config.CognitoConfig{
			UserPoolID:   "us-east-1_testpool",
			ClientID:     "test-client",
			CPFAttribute: "custom:cpf",
		},
	}
	for _, opt := range options {
		opt(cfg)
	}

	return &rpc.RPC{
		Config: cfg,
		Log: httplog.NewLogger("cpf-auth-test", httplog.Options{
			LogLevel: zerolog.LevelErrorValue,
		}),
		Cognito:      provider,
		Resolver:     auth.NewResolver(provider, cfg.Cognito.UserPoolID, cfg.Cognito.CPFAttribute),
		Orchestrator: auth.NewOrchestrator(provider, cfg.Cognito.UserPoolID, cfg.Cognito.ClientID),
		Metrics:      o11y.NewMetrics(),
	}
}

func postJSON(t *testing.T, url string, body string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(http.MethodPost, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return res.StatusCode, decoded
}
