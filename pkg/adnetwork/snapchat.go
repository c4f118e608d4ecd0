package adnetwork

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"adhub/internal/domain"
	"adhub/pkg/money"
)

// Snapchat creates campaign, ad squad, creative and ad through the Marketing API.
type Snapchat struct {
	baseURL string
	req     *requester
}

func NewSnapchat(baseURL string, httpClient *http.Client) *Snapchat {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &Snapchat{
		baseURL: strings.TrimRight(baseURL, "/"),
		req:     &requester{provider: domain.ServiceSnapchat, http: httpClient, errMsg: snapchatErrorMessage},
	}
}

func (s *Snapchat) Network() string { return domain.ServiceSnapchat }

func snapchatErrorMessage(body []byte) string {
	var env struct {
		DebugMessage   string `json:"debug_message"`
		DisplayMessage string `json:"display_message"`
	}
	if json.Unmarshal(body, &env) != nil {
		return ""
	}
	if env.DisplayMessage != "" {
		return env.DisplayMessage
	}
	return env.DebugMessage
}

func (s *Snapchat) SubmitCampaign(ctx context.Context, creds Credentials, c Campaign) (*Result, error) {
	if creds.AccessToken == "" || creds.AccountID == "" {
		return nil, &domain.UpstreamError{Provider: domain.ServiceSnapchat, Message: "missing access token or ad account"}
	}
	raw := steps{}
	ids := map[string]string{}
	start := c.StartTime.UTC().Format(time.RFC3339)
	end := c.EndTime.UTC().Format(time.RFC3339)

	campaignID, err := s.create(ctx, creds, "/adaccounts/"+creds.AccountID+"/campaigns", "campaigns", "campaign", map[string]interface{}{
		"name":          c.Name,
		"ad_account_id": creds.AccountID,
		"status":        "PAUSED",
		"start_time":    start,
		"end_time":      end,
	}, raw)
	if err != nil {
		return nil, err
	}
	ids["campaign_id"] = campaignID

	targeting := map[string]interface{}{}
	if len(c.Countries) > 0 {
		geos := make([]map[string]string, 0, len(c.Countries))
		for _, cc := range c.Countries {
			geos = append(geos, map[string]string{"country_code": strings.ToLower(cc)})
		}
		targeting["geos"] = geos
	}
	if c.AgeMin > 0 || c.AgeMax > 0 {
		demo := map[string]interface{}{}
		if c.AgeMin > 0 {
			demo["min_age"] = c.AgeMin
		}
		if c.AgeMax > 0 {
			demo["max_age"] = c.AgeMax
		}
		targeting["demographics"] = []interface{}{demo}
	}
	squadID, err := s.create(ctx, creds, "/campaigns/"+campaignID+"/adsquads", "adsquads", "adsquad", map[string]interface{}{
		"campaign_id":        campaignID,
		"name":               c.Name + " ad squad",
		"type":               "SNAP_ADS",
		"placement_v2":       map[string]string{"config": "AUTOMATIC"},
		"optimization_goal":  "SWIPES",
		"bid_strategy":       "AUTO_BID",
		"billing_event":      "IMPRESSION",
		"daily_budget_micro": money.MinorToMicros(c.DailyBudget),
		"targeting":          targeting,
		"status":             "PAUSED",
		"start_time":         start,
		"end_time":           end,
	}, raw)
	if err != nil {
		return nil, err
	}
	ids["adsquad_id"] = squadID

	cta := c.CallToAction
	if cta == "" {
		cta = "MORE"
	}
	creativeID, err := s.create(ctx, creds, "/adaccounts/"+creds.AccountID+"/creatives", "creatives", "creative", map[string]interface{}{
		"ad_account_id":       creds.AccountID,
		"name":                c.Name + " creative",
		"type":                "WEB_VIEW",
		"headline":            c.Headline,
		"shareable":           true,
		"call_to_action":      cta,
		"top_snap_media_id":   c.MediaID,
		"profile_properties":  map[string]string{"profile_id": creds.IdentityID},
		"web_view_properties": map[string]string{"url": c.LinkURL},
	}, raw)
	if err != nil {
		return nil, err
	}
	ids["creative_id"] = creativeID

	adID, err := s.create(ctx, creds, "/adsquads/"+squadID+"/ads", "ads", "ad", map[string]interface{}{
		"ad_squad_id": squadID,
		"creative_id": creativeID,
		"name":        c.Name + " ad",
		"type":        "REMOTE_WEBPAGE",
		"status":      "PAUSED",
	}, raw)
	if err != nil {
		return nil, err
	}
	ids["ad_id"] = adID

	return raw.result(domain.ServiceSnapchat, ids), nil
}

// create posts {plural: [entity]} and reads back plural[0].singular.id.
func (s *Snapchat) create(ctx context.Context, creds Credentials, path, plural, singular string, entity map[string]interface{}, raw steps) (string, error) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+creds.AccessToken)
	resp, err := s.req.postJSON(ctx, s.baseURL+path, headers, map[string]interface{}{plural: []interface{}{entity}})
	if err != nil {
		return "", fmt.Errorf("create %s: %w", singular, err)
	}
	raw[singular] = resp

	var env map[string]json.RawMessage
	if err := s.req.decode(resp, &env); err != nil {
		return "", err
	}
	var status string
	_ = json.Unmarshal(env["request_status"], &status)
	if !strings.EqualFold(status, "SUCCESS") {
		return "", fmt.Errorf("create %s: %w", singular, &domain.UpstreamError{Provider: domain.ServiceSnapchat, Message: snapchatErrorMessage(resp)})
	}
	var items []map[string]json.RawMessage
	if err := s.req.decode(env[plural], &items); err != nil || len(items) == 0 {
		return "", &domain.UpstreamError{Provider: domain.ServiceSnapchat, Message: singular + " missing from response"}
	}
	var subStatus string
	_ = json.Unmarshal(items[0]["sub_request_status"], &subStatus)
	if subStatus != "" && !strings.EqualFold(subStatus, "SUCCESS") {
		var reason string
		_ = json.Unmarshal(items[0]["sub_request_error_reason"], &reason)
		return "", fmt.Errorf("create %s: %w", singular, &domain.UpstreamError{Provider: domain.ServiceSnapchat, Message: reason})
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := s.req.decode(items[0][singular], &obj); err != nil || obj.ID == "" {
		return "", &domain.UpstreamError{Provider: domain.ServiceSnapchat, Message: singular + " created without id"}
	}
	return obj.ID, nil
}
