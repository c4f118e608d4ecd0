// Package adnetwork submits campaigns to third-party ad platforms. Clients are
// stateless: every call receives the credentials it should act with.
package adnetwork

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"adhub/internal/domain"
)

// Campaign describes a single-creative campaign in network-neutral terms.
type Campaign struct {
	Name         string    `json:"name"`
	Objective    string    `json:"objective,omitempty"`
	DailyBudget  int64     `json:"daily_budget,omitempty"` // minor units
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Headline     string    `json:"headline"`
	Body         string    `json:"body,omitempty"`
	LinkURL      string    `json:"link_url"`
	ImageURL     string    `json:"image_url,omitempty"`
	MediaID      string    `json:"media_id,omitempty"` // pre-uploaded media on networks that need one
	CallToAction string    `json:"call_to_action,omitempty"`
	Countries    []string  `json:"countries,omitempty"`
	AgeMin       int       `json:"age_min,omitempty"`
	AgeMax       int       `json:"age_max,omitempty"`
}

// Validate checks the fields every network needs.
func (c *Campaign) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("%w: name required", domain.ErrInvalidCampaign)
	case c.DailyBudget <= 0:
		return fmt.Errorf("%w: daily budget must be positive", domain.ErrInvalidCampaign)
	case c.EndTime.IsZero() || !c.EndTime.After(c.StartTime):
		return fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidCampaign)
	}
	u, err := url.Parse(c.LinkURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: link_url must be an absolute http(s) url", domain.ErrInvalidCampaign)
	}
	if c.AgeMin != 0 && c.AgeMax != 0 && c.AgeMin > c.AgeMax {
		return fmt.Errorf("%w: age_min greater than age_max", domain.ErrInvalidCampaign)
	}
	return nil
}

// Credentials authorize one call. Which fields matter depends on the network.
type Credentials struct {
	AccessToken string
	AccountID   string
	// IdentityID is the Facebook page, TikTok identity or Snapchat profile the ad runs as.
	IdentityID string

	DeveloperToken  string
	LoginCustomerID string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
}

// Result holds the ids the network assigned, keyed by resource kind, and the
// raw responses of each step.
type Result struct {
	Network     string            `json:"network"`
	ExternalIDs map[string]string `json:"external_ids"`
	Raw         json.RawMessage   `json:"raw,omitempty"`
}

type Client interface {
	Network() string
	SubmitCampaign(ctx context.Context, creds Credentials, c Campaign) (*Result, error)
}

// steps accumulates the raw response of each request in a submission.
type steps map[string]json.RawMessage

func (s steps) result(network string, ids map[string]string) *Result {
	raw, _ := json.Marshal(s)
	return &Result{Network: network, ExternalIDs: ids, Raw: raw}
}
