package adnetwork

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"adhub/internal/domain"
	"adhub/pkg/money"
)

const tiktokTimeLayout = "2006-01-02 15:04:05"

// TikTok creates campaign, ad group and ad through the Business API. The API
// answers 200 for most failures and reports them in the envelope code.
type TikTok struct {
	baseURL string
	req     *requester
}

func NewTikTok(baseURL string, httpClient *http.Client) *TikTok {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &TikTok{
		baseURL: strings.TrimRight(baseURL, "/"),
		req:     &requester{provider: domain.ServiceTikTok, http: httpClient, errMsg: tiktokErrorMessage},
	}
}

func (t *TikTok) Network() string { return domain.ServiceTikTok }

type tiktokEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func tiktokErrorMessage(body []byte) string {
	var env tiktokEnvelope
	if json.Unmarshal(body, &env) != nil {
		return ""
	}
	return env.Message
}

func (t *TikTok) SubmitCampaign(ctx context.Context, creds Credentials, c Campaign) (*Result, error) {
	if creds.AccessToken == "" || creds.AccountID == "" {
		return nil, &domain.UpstreamError{Provider: domain.ServiceTikTok, Message: "missing access token or advertiser id"}
	}
	raw := steps{}
	ids := map[string]string{}

	objective := c.Objective
	if objective == "" {
		objective = "TRAFFIC"
	}
	var camp struct {
		CampaignID string `json:"campaign_id"`
	}
	if err := t.call(ctx, creds, "campaign/create/", map[string]interface{}{
		"advertiser_id":  creds.AccountID,
		"campaign_name":  c.Name,
		"objective_type": objective,
		"budget_mode":    "BUDGET_MODE_INFINITE",
	}, raw, "campaign", &camp); err != nil {
		return nil, err
	}
	ids["campaign_id"] = camp.CampaignID

	group := map[string]interface{}{
		"advertiser_id":       creds.AccountID,
		"campaign_id":         camp.CampaignID,
		"adgroup_name":        c.Name + " ad group",
		"placement_type":      "PLACEMENT_TYPE_AUTOMATIC",
		"budget_mode":         "BUDGET_MODE_DAY",
		"budget":              money.MinorToMajor(c.DailyBudget),
		"schedule_type":       "SCHEDULE_START_END",
		"schedule_start_time": c.StartTime.UTC().Format(tiktokTimeLayout),
		"schedule_end_time":   c.EndTime.UTC().Format(tiktokTimeLayout),
		"optimization_goal":   "CLICK",
		"billing_event":       "CPC",
		"bid_type":            "BID_TYPE_NO_BID",
		"promotion_type":      "WEBSITE",
	}
	if len(c.Countries) > 0 {
		group["location_ids"] = c.Countries
	}
	var ag struct {
		AdgroupID string `json:"adgroup_id"`
	}
	if err := t.call(ctx, creds, "adgroup/create/", group, raw, "adgroup", &ag); err != nil {
		return nil, err
	}
	ids["adgroup_id"] = ag.AdgroupID

	cta := c.CallToAction
	if cta == "" {
		cta = "LEARN_MORE"
	}
	creative := map[string]interface{}{
		"ad_name":          c.Name + " ad",
		"identity_id":      creds.IdentityID,
		"identity_type":    "CUSTOMIZED_USER",
		"ad_format":        "SINGLE_IMAGE",
		"ad_text":          c.Body,
		"landing_page_url": c.LinkURL,
		"call_to_action":   cta,
	}
	if c.MediaID != "" {
		creative["image_ids"] = []string{c.MediaID}
	}
	var ad struct {
		AdIDs []string `json:"ad_ids"`
	}
	if err := t.call(ctx, creds, "ad/create/", map[string]interface{}{
		"advertiser_id": creds.AccountID,
		"adgroup_id":    ag.AdgroupID,
		"creatives":     []interface{}{creative},
	}, raw, "ad", &ad); err != nil {
		return nil, err
	}
	if len(ad.AdIDs) > 0 {
		ids["ad_id"] = ad.AdIDs[0]
	}

	return raw.result(domain.ServiceTikTok, ids), nil
}

func (t *TikTok) call(ctx context.Context, creds Credentials, path string, body map[string]interface{}, raw steps, step string, out interface{}) error {
	headers := http.Header{}
	headers.Set("Access-Token", creds.AccessToken)
	resp, err := t.req.postJSON(ctx, t.baseURL+"/"+path, headers, body)
	if err != nil {
		return fmt.Errorf("create %s: %w", step, err)
	}
	raw[step] = resp
	var env tiktokEnvelope
	if err := t.req.decode(resp, &env); err != nil {
		return err
	}
	if env.Code != 0 {
		return fmt.Errorf("create %s: %w", step, &domain.UpstreamError{Provider: domain.ServiceTikTok, Message: fmt.Sprintf("%s (code %d)", env.Message, env.Code)})
	}
	return t.req.decode(env.Data, out)
}
