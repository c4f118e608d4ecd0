package adnetwork

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"adhub/internal/domain"
)

// Facebook creates campaign, ad set, creative and ad through the Marketing API.
// Everything is created PAUSED; delivery starts once the ad passes review.
type Facebook struct {
	baseURL string
	req     *requester
}

func NewFacebook(baseURL string, httpClient *http.Client) *Facebook {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &Facebook{
		baseURL: strings.TrimRight(baseURL, "/"),
		req:     &requester{provider: domain.ServiceFacebook, http: httpClient, errMsg: nestedErrorMessage},
	}
}

func (f *Facebook) Network() string { return domain.ServiceFacebook }

func (f *Facebook) SubmitCampaign(ctx context.Context, creds Credentials, c Campaign) (*Result, error) {
	if creds.AccessToken == "" || creds.AccountID == "" {
		return nil, &domain.UpstreamError{Provider: domain.ServiceFacebook, Message: "missing access token or ad account"}
	}
	account := "act_" + strings.TrimPrefix(creds.AccountID, "act_")
	raw := steps{}
	ids := map[string]string{}

	objective := c.Objective
	if objective == "" {
		objective = "OUTCOME_TRAFFIC"
	}
	campaignID, err := f.create(ctx, creds, account+"/campaigns", map[string]interface{}{
		"name":                  c.Name,
		"objective":             objective,
		"status":                "PAUSED",
		"special_ad_categories": []string{},
	}, raw, "campaign")
	if err != nil {
		return nil, err
	}
	ids["campaign_id"] = campaignID

	targeting := map[string]interface{}{}
	if len(c.Countries) > 0 {
		targeting["geo_locations"] = map[string]interface{}{"countries": c.Countries}
	}
	if c.AgeMin > 0 {
		targeting["age_min"] = c.AgeMin
	}
	if c.AgeMax > 0 {
		targeting["age_max"] = c.AgeMax
	}
	adSetID, err := f.create(ctx, creds, account+"/adsets", map[string]interface{}{
		"name":              c.Name + " ad set",
		"campaign_id":       campaignID,
		"daily_budget":      c.DailyBudget,
		"billing_event":     "IMPRESSIONS",
		"optimization_goal": "LINK_CLICKS",
		"bid_strategy":      "LOWEST_COST_WITHOUT_CAP",
		"targeting":         targeting,
		"start_time":        c.StartTime.UTC().Format(time.RFC3339),
		"end_time":          c.EndTime.UTC().Format(time.RFC3339),
		"status":            "PAUSED",
	}, raw, "adset")
	if err != nil {
		return nil, err
	}
	ids["adset_id"] = adSetID

	cta := c.CallToAction
	if cta == "" {
		cta = "LEARN_MORE"
	}
	creativeID, err := f.create(ctx, creds, account+"/adcreatives", map[string]interface{}{
		"name": c.Name + " creative",
		"object_story_spec": map[string]interface{}{
			"page_id": creds.IdentityID,
			"link_data": map[string]interface{}{
				"link":           c.LinkURL,
				"message":        c.Body,
				"name":           c.Headline,
				"picture":        c.ImageURL,
				"call_to_action": map[string]interface{}{"type": cta, "value": map[string]string{"link": c.LinkURL}},
			},
		},
	}, raw, "creative")
	if err != nil {
		return nil, err
	}
	ids["creative_id"] = creativeID

	adID, err := f.create(ctx, creds, account+"/ads", map[string]interface{}{
		"name":     c.Name + " ad",
		"adset_id": adSetID,
		"creative": map[string]string{"creative_id": creativeID},
		"status":   "PAUSED",
	}, raw, "ad")
	if err != nil {
		return nil, err
	}
	ids["ad_id"] = adID

	return raw.result(domain.ServiceFacebook, ids), nil
}

func (f *Facebook) create(ctx context.Context, creds Credentials, edge string, body map[string]interface{}, raw steps, step string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s?access_token=%s", f.baseURL, edge, url.QueryEscape(creds.AccessToken))
	resp, err := f.req.postJSON(ctx, endpoint, nil, body)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", step, err)
	}
	raw[step] = resp
	var out struct {
		ID string `json:"id"`
	}
	if err := f.req.decode(resp, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &domain.UpstreamError{Provider: domain.ServiceFacebook, Message: step + " created without id"}
	}
	return out.ID, nil
}
