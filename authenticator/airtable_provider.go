package authenticator

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/formflow/formflow/airtable"
)

const (
	defaultAuthURL  = "https://airtable.com/oauth2/v1/authorize"
	defaultTokenURL = "https://airtable.com/oauth2/v1/token"
)

// Scopes are exactly the provider scopes this application needs:
// record read/write, schema read, webhook management.
var Scopes = []string{
	"data.records:read",
	"data.records:write",
	"schema.bases:read",
	"webhook:manage",
}

// AirtableProvider implements the Provider interface for Airtable's
// OAuth 2.0 service (authorization code with PKCE, Basic client auth).
type AirtableProvider struct {
	config oauth2.Config
	api    *airtable.Client
}

// AirtableConfig holds Airtable OAuth configuration
type AirtableConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// AuthURL and TokenURL default to the public Airtable endpoints.
	AuthURL  string
	TokenURL string
}

// NewAirtableProvider creates a new Airtable provider with the given configuration
func NewAirtableProvider(cfg AirtableConfig, api *airtable.Client) (*AirtableProvider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if api == nil {
		return nil, errors.New("api client is required")
	}

	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}

	conf := oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.TokenURL,
			// Airtable requires HTTP Basic client authentication on the
			// token endpoint.
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		Scopes: Scopes,
	}

	return &AirtableProvider{config: conf, api: api}, nil
}

// AuthCodeURL returns the authorization URL carrying the state nonce and
// the S256 code challenge derived from verifier.
func (p *AirtableProvider) AuthCodeURL(state, verifier string) string {
	return p.config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange trades an authorization code for tokens, proving possession
// of the PKCE verifier.
func (p *AirtableProvider) Exchange(ctx context.Context, code, verifier string) (*Token, error) {
	oauth2Token, err := p.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	return &Token{
		AccessToken:  oauth2Token.AccessToken,
		RefreshToken: oauth2Token.RefreshToken,
		Expiry:       oauth2Token.Expiry.Unix(),
	}, nil
}

// Refresh performs a refresh-token exchange. RefreshToken in the result
// is empty when the provider did not rotate it.
func (p *AirtableProvider) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	source := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	oauth2Token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token exchange: %w", err)
	}

	token := &Token{
		AccessToken:  oauth2Token.AccessToken,
		RefreshToken: oauth2Token.RefreshToken,
		Expiry:       oauth2Token.Expiry.Unix(),
	}
	if token.RefreshToken == refreshToken {
		// Not rotated; let callers keep what they have.
		token.RefreshToken = ""
	}
	return token, nil
}

// Identity resolves the stable Airtable user id for an access token.
func (p *AirtableProvider) Identity(ctx context.Context, accessToken string) (*Identity, error) {
	whoami, err := p.api.GetWhoAmI(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	return &Identity{
		ID:     whoami.ID,
		Email:  whoami.Email,
		Scopes: whoami.Scopes,
	}, nil
}
