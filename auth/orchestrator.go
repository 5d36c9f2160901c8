package auth

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
)

// ChallengeOutcome mirrors the provider's auth response wire shape so both
// phase results are returned to the caller unmodified: phase 1 yields a
// session plus challenge parameters, phase 2 yields the token bundle.
type ChallengeOutcome struct {
	ChallengeName        string            `json:"ChallengeName,omitempty"`
	Session              string            `json:"Session,omitempty"`
	ChallengeParameters  map[string]string `json:"ChallengeParameters,omitempty"`
	AuthenticationResult *TokenBundle      `json:"AuthenticationResult,omitempty"`
}

type TokenBundle struct {
	AccessToken  string `json:"AccessToken,omitempty"`
	ExpiresIn    int32  `json:"ExpiresIn,omitempty"`
	IdToken      string `json:"IdToken,omitempty"`
	RefreshToken string `json:"RefreshToken,omitempty"`
	TokenType    string `json:"TokenType,omitempty"`
}

// Orchestrator drives the two-phase custom auth flow. It is stateless: the
// correlation between phases lives entirely in the caller-held session token.
type Orchestrator struct {
	provider   Provider
	userPoolID string
	clientID   string
}

func NewOrchestrator(provider Provider, userPoolID, clientID string) *Orchestrator {
	return &Orchestrator{
		provider:   provider,
		userPoolID: userPoolID,
		clientID:   clientID,
	}
}

// Drive issues exactly one provider call for the given phase. Session and
// otp values are never inspected beyond presence; format, expiry and
// mismatch validation is the provider's.
func (o *Orchestrator) Drive(ctx context.Context, identity ResolvedIdentity, phase Phase) (*ChallengeOutcome, error) {
	if phase.Kind == PhaseVerify {
		return o.verify(ctx, identity, phase)
	}
	return o.initiate(ctx, identity)
}

func (o *Orchestrator) initiate(ctx context.Context, identity ResolvedIdentity) (*ChallengeOutcome, error) {
	out, err := o.provider.AdminInitiateAuth(ctx, &cognito.AdminInitiateAuthInput{
		UserPoolId: aws.String(o.userPoolID),
		ClientId:   aws.String(o.clientID),
		AuthFlow:   types.AuthFlowTypeCustomAuth,
		AuthParameters: map[string]string{
			"USERNAME": identity.Username,
		},
	})
	if err != nil {
		return nil, challengeError(err)
	}
	return &ChallengeOutcome{
		ChallengeName:        string(out.ChallengeName),
		Session:              aws.ToString(out.Session),
		ChallengeParameters:  out.ChallengeParameters,
		AuthenticationResult: tokenBundle(out.AuthenticationResult),
	}, nil
}

func (o *Orchestrator) verify(ctx context.Context, identity ResolvedIdentity, phase Phase) (*ChallengeOutcome, error) {
	out, err := o.provider.AdminRespondToAuthChallenge(ctx, &cognito.AdminRespondToAuthChallengeInput{
		UserPoolId:    aws.String(o.userPoolID),
		ClientId:      aws.String(o.clientID),
		ChallengeName: types.ChallengeNameTypeCustomChallenge,
		Session:       aws.String(phase.Session),
		ChallengeResponses: map[string]string{
			"USERNAME": identity.Username,
			"ANSWER":   phase.OTP,
		},
	})
	if err != nil {
		return nil, challengeError(err)
	}
	return &ChallengeOutcome{
		ChallengeName:        string(out.ChallengeName),
		Session:              aws.ToString(out.Session),
		ChallengeParameters:  out.ChallengeParameters,
		AuthenticationResult: tokenBundle(out.AuthenticationResult),
	}, nil
}

func tokenBundle(res *types.AuthenticationResultType) *TokenBundle {
	if res == nil {
		return nil
	}
	return &TokenBundle{
		AccessToken:  aws.ToString(res.AccessToken),
		ExpiresIn:    res.ExpiresIn,
		IdToken:      aws.ToString(res.IdToken),
		RefreshToken: aws.ToString(res.RefreshToken),
		TokenType:    aws.ToString(res.TokenType),
	}
}

// challengeError folds any provider rejection into the single AuthFailed
// kind. Wrong codes and expired sessions are expected outcomes of the
// protocol, not system faults; the provider's classification name is kept
// for the response body.
func challengeError(err error) *Error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return ErrAuthFailed.WithCode(apiErr.ErrorCode()).WithCausef("%s", apiErr.ErrorMessage())
	}
	return ErrAuthFailed.WithCausef("%w", err)
}
