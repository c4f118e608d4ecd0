package adnetwork

import (
	"context"
	"fmt"
	"net/http"

	"adhub/config"
	"adhub/internal/domain"
)

type entry struct {
	client Client
	creds  Credentials
}

// Registry routes a service name to its client and the credentials configured for it.
type Registry struct {
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]entry{}}
}

// NewRegistryFromConfig registers every supported network with the configured credentials.
func NewRegistryFromConfig(cfg config.AdNetworksConfig, httpClient *http.Client) *Registry {
	r := NewRegistry()
	r.Register(NewFacebook(cfg.Facebook.BaseURL, httpClient), Credentials{
		AccessToken: cfg.Facebook.AccessToken,
		AccountID:   cfg.Facebook.AdAccountID,
		IdentityID:  cfg.Facebook.PageID,
	})
	r.Register(NewTikTok(cfg.TikTok.BaseURL, httpClient), Credentials{
		AccessToken: cfg.TikTok.AccessToken,
		AccountID:   cfg.TikTok.AdvertiserID,
		IdentityID:  cfg.TikTok.IdentityID,
	})
	r.Register(NewSnapchat(cfg.Snapchat.BaseURL, httpClient), Credentials{
		AccessToken: cfg.Snapchat.AccessToken,
		AccountID:   cfg.Snapchat.AdAccountID,
		IdentityID:  cfg.Snapchat.ProfileID,
	})
	r.Register(NewGoogleAds(cfg.Google.BaseURL, httpClient), Credentials{
		AccountID:       cfg.Google.CustomerID,
		DeveloperToken:  cfg.Google.DeveloperToken,
		LoginCustomerID: cfg.Google.LoginCustomerID,
		ClientID:        cfg.Google.ClientID,
		ClientSecret:    cfg.Google.ClientSecret,
		RefreshToken:    cfg.Google.RefreshToken,
	})
	return r
}

func (r *Registry) Register(c Client, creds Credentials) {
	r.entries[c.Network()] = entry{client: c, creds: creds}
}

func (r *Registry) Supports(service string) bool {
	_, ok := r.entries[service]
	return ok
}

// Submit validates the campaign and hands it to the service's client.
func (r *Registry) Submit(ctx context.Context, service string, c Campaign) (*Result, error) {
	e, ok := r.entries[service]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownService, service)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return e.client.SubmitCampaign(ctx, e.creds, c)
}
