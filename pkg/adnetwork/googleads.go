package adnetwork

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"adhub/internal/domain"
	"adhub/pkg/money"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleDateLayout = "2006-01-02"

// GoogleAds creates budget, campaign and ad group through the Google Ads REST
// API. Access tokens are minted from the caller's OAuth2 refresh token.
type GoogleAds struct {
	baseURL  string
	endpoint oauth2.Endpoint
	http     *http.Client
	req      *requester
}

func NewGoogleAds(baseURL string, httpClient *http.Client) *GoogleAds {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &GoogleAds{
		baseURL:  strings.TrimRight(baseURL, "/"),
		endpoint: google.Endpoint,
		http:     httpClient,
		req:      &requester{provider: domain.ServiceGoogleAds, http: httpClient, errMsg: nestedErrorMessage},
	}
}

func (g *GoogleAds) Network() string { return domain.ServiceGoogleAds }

func (g *GoogleAds) token(ctx context.Context, creds Credentials) (string, error) {
	if creds.AccessToken != "" {
		return creds.AccessToken, nil
	}
	conf := &oauth2.Config{ClientID: creds.ClientID, ClientSecret: creds.ClientSecret, Endpoint: g.endpoint}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.http)
	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken}).Token()
	if err != nil {
		return "", &domain.UpstreamError{Provider: domain.ServiceGoogleAds, Message: "oauth token: " + err.Error()}
	}
	return tok.AccessToken, nil
}

func (g *GoogleAds) SubmitCampaign(ctx context.Context, creds Credentials, c Campaign) (*Result, error) {
	if creds.AccountID == "" || creds.DeveloperToken == "" {
		return nil, &domain.UpstreamError{Provider: domain.ServiceGoogleAds, Message: "missing customer id or developer token"}
	}
	access, err := g.token(ctx, creds)
	if err != nil {
		return nil, err
	}
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+access)
	headers.Set("developer-token", creds.DeveloperToken)
	if creds.LoginCustomerID != "" {
		headers.Set("login-customer-id", strings.ReplaceAll(creds.LoginCustomerID, "-", ""))
	}
	customer := strings.ReplaceAll(creds.AccountID, "-", "")
	raw := steps{}
	ids := map[string]string{}

	budget, err := g.mutate(ctx, headers, customer, "campaignBudgets", map[string]interface{}{
		"name":           c.Name + " budget",
		"amountMicros":   money.MinorToMicros(c.DailyBudget),
		"deliveryMethod": "STANDARD",
	}, raw, "budget")
	if err != nil {
		return nil, err
	}
	ids["budget"] = budget

	channel := c.Objective
	if channel == "" {
		channel = "DISPLAY"
	}
	campaign, err := g.mutate(ctx, headers, customer, "campaigns", map[string]interface{}{
		"name":                   c.Name,
		"status":                 "PAUSED",
		"advertisingChannelType": channel,
		"campaignBudget":         budget,
		"manualCpc":              map[string]interface{}{},
		"startDate":              c.StartTime.UTC().Format(googleDateLayout),
		"endDate":                c.EndTime.UTC().Format(googleDateLayout),
	}, raw, "campaign")
	if err != nil {
		return nil, err
	}
	ids["campaign"] = campaign

	adGroup, err := g.mutate(ctx, headers, customer, "adGroups", map[string]interface{}{
		"name":     c.Name + " ad group",
		"campaign": campaign,
		"status":   "PAUSED",
		"type":     "DISPLAY_STANDARD",
	}, raw, "ad_group")
	if err != nil {
		return nil, err
	}
	ids["ad_group"] = adGroup

	return raw.result(domain.ServiceGoogleAds, ids), nil
}

// mutate creates one resource and returns its resource name.
func (g *GoogleAds) mutate(ctx context.Context, headers http.Header, customer, resource string, create map[string]interface{}, raw steps, step string) (string, error) {
	endpoint := fmt.Sprintf("%s/customers/%s/%s:mutate", g.baseURL, customer, resource)
	body := map[string]interface{}{
		"operations": []interface{}{map[string]interface{}{"create": create}},
	}
	resp, err := g.req.postJSON(ctx, endpoint, headers, body)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", step, err)
	}
	raw[step] = resp
	var out struct {
		Results []struct {
			ResourceName string `json:"resourceName"`
		} `json:"results"`
	}
	if err := g.req.decode(resp, &out); err != nil {
		return "", err
	}
	if len(out.Results) == 0 || out.Results[0].ResourceName == "" {
		return "", &domain.UpstreamError{Provider: domain.ServiceGoogleAds, Message: step + " created without resource name"}
	}
	return out.Results[0].ResourceName, nil
}
