package publishers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/samvad-hq/competera-client/pkg/httpclient"
)

// Event attributes travel as headers on webhook deliveries.
const attrHeaderPrefix = "X-Event-"

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	client := httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second)
	return newSink(cfg, sendToWebhook(client, *cfg.HTTP), log), nil
}

// sendToWebhook posts the JSON event; any non-2xx reply is a failed delivery.
func sendToWebhook(client *resty.Client, cfg HTTPConfig) sendFunc {
	return func(ctx context.Context, body []byte, attrs map[string]string) (string, error) {
		req := client.R().
			SetContext(ctx).
			SetHeaders(cfg.Headers).
			SetHeader("Content-Type", "application/json").
			SetBody(body)
		for k, v := range attrs {
			req.SetHeader(attrHeaderPrefix+k, v)
		}

		resp, err := req.Execute(cfg.Method, cfg.URL)
		if err != nil {
			return "", fmt.Errorf("http request: %w", err)
		}
		if !resp.IsSuccess() {
			snippet := httpclient.Snippet(resp.Body(), resp.Header().Get("Content-Type"))
			return "", fmt.Errorf("http response status %d: %s", resp.StatusCode(), snippet)
		}
		return strconv.Itoa(resp.StatusCode()), nil
	}
}
