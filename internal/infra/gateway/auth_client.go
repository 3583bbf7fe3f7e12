// File: internal/infra/gateway/auth_client.go
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"telegram-media-bots/internal/domain"
	"telegram-media-bots/internal/domain/model"
	"telegram-media-bots/internal/domain/ports/adapter"
)

// Compile-time assurance this client satisfies the port
var _ adapter.TokenSource = (*AuthClient)(nil)

// AuthClient obtains bearer tokens via the OAuth2 client-credentials flow
// and caches the latest one. The cached credential is replaced wholesale
// whenever it is within the caller's threshold of expiry; there is no
// background refresh.
type AuthClient struct {
	tokenURL     string
	clientID     string
	clientSecret string
	client       *http.Client
	log          *zerolog.Logger

	mu  sync.Mutex
	cur *model.Credential
	now func() time.Time
}

func NewAuthClient(tokenURL, clientID, clientSecret string, log *zerolog.Logger) (*AuthClient, error) {
	if tokenURL == "" {
		return nil, errors.New("auth token url empty")
	}
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("auth client credentials empty")
	}
	return &AuthClient{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       &http.Client{Timeout: 30 * time.Second},
		log:          log,
		now:          time.Now,
	}, nil
}

func (a *AuthClient) Credential(ctx context.Context, threshold time.Duration) (model.Credential, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cur != nil && !a.cur.ShouldRefresh(a.now(), threshold) {
		return *a.cur, nil
	}

	cred, err := a.fetch(ctx)
	if err != nil {
		return model.Credential{}, err
	}
	a.cur = &cred
	a.log.Debug().Time("expires_at", cred.ExpiresAt).Msg("bearer token replaced")
	return cred, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (a *AuthClient) fetch(ctx context.Context) (model.Credential, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {a.clientID},
		"client_secret": {a.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return model.Credential{}, fmt.Errorf("%w: %v", domain.ErrAuthFailure, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return model.Credential{}, fmt.Errorf("%w: %v", domain.ErrAuthFailure, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Credential{}, fmt.Errorf("%w: token endpoint http %d", domain.ErrAuthFailure, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return model.Credential{}, fmt.Errorf("%w: unparseable token response", domain.ErrAuthFailure)
	}
	if strings.TrimSpace(tr.AccessToken) == "" {
		return model.Credential{}, fmt.Errorf("%w: empty access token", domain.ErrAuthFailure)
	}

	issued := a.now()
	expiresAt, err := tokenExpiry(tr, issued)
	if err != nil {
		return model.Credential{}, err
	}
	return model.Credential{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
		ExpiresAt:   expiresAt,
	}, nil
}

// tokenExpiry prefers expires_in; when the endpoint omits it, the exp claim
// of the (JWT) access token is used instead. The signature is not checked
// here, only the expiry window is read.
func tokenExpiry(tr tokenResponse, issued time.Time) (time.Time, error) {
	if tr.ExpiresIn > 0 {
		return issued.Add(time.Duration(tr.ExpiresIn) * time.Second), nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tr.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: token without expiry", domain.ErrAuthFailure)
}
