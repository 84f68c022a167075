package amadeus

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"stayfinder/internal/adapters/vendor"
	"stayfinder/internal/domain"
)

// refreshSkew renews a token this long before it actually expires.
const refreshSkew = 60 * time.Second

var ErrNoToken = errors.New("amadeus: token response without access_token")

// TokenSource caches one client-credentials bearer token per adapter instance.
type TokenSource struct {
	http         *vendor.Client
	url          string
	clientID     string
	clientSecret string

	// Now is the clock used for expiry checks.
	Now func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewTokenSource(hc *vendor.Client, baseURL, clientID, clientSecret string) *TokenSource {
	return &TokenSource{
		http:         hc,
		url:          baseURL + "/v1/security/oauth2/token",
		clientID:     clientID,
		clientSecret: clientSecret,
		Now:          time.Now,
	}
}

// Token returns the cached token, fetching a new one when it is missing or
// within a minute of expiry. Missing credentials wrap domain.ErrMissingCredentials.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	if t.clientID == "" || t.clientSecret == "" {
		return "", fmt.Errorf("amadeus client id/secret: %w", domain.ErrMissingCredentials)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.token != "" && t.Now().Before(t.expiry.Add(-refreshSkew)) {
		return t.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", t.clientID)
	form.Set("client_secret", t.clientSecret)

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := t.http.PostForm(ctx, "token", t.url, form, &out); err != nil {
		return "", fmt.Errorf("amadeus token: %w", err)
	}
	if out.AccessToken == "" {
		return "", ErrNoToken
	}
	if out.ExpiresIn <= 0 {
		out.ExpiresIn = 1800
	}
	t.token = out.AccessToken
	t.expiry = t.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	return t.token, nil
}
