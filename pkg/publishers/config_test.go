package publishers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSinks(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadEnabledFiltersAndNormalizes(t *testing.T) {
	path := writeSinks(t, "publishers.yaml", `
publishers:
  - id: off
    type: sqs
    enabled: false
  - id: hook
    type: http
    http:
      url: " https://example.com/hook "
      headers:
        X-Token: " abc "
        Empty: ""
  - id: alerts
    type: SNS
    sns:
      topic_arn: " arn:aws:sns:eu-west-1:123:alerts "
      region: eu-west-1
      access_key_id: AKIA
      secret_access_key: secret
`)

	cfgs, err := LoadEnabled(path)
	if err != nil {
		t.Fatalf("LoadEnabled: %v", err)
	}
	if len(cfgs) != 2 || cfgs[0].ID != "hook" || cfgs[1].ID != "alerts" {
		t.Fatalf("expected hook and alerts, got %#v", cfgs)
	}

	hook := cfgs[0].HTTP
	if hook.URL != "https://example.com/hook" || hook.Method != "POST" || hook.TimeoutSeconds != defaultHTTPTimeout {
		t.Fatalf("http defaults not applied: %#v", hook)
	}
	if len(hook.Headers) != 1 || hook.Headers["X-Token"] != "abc" {
		t.Fatalf("headers not cleaned: %#v", hook.Headers)
	}

	alerts := cfgs[1]
	if alerts.Type != TypeSNS || alerts.SNS.TopicARN != "arn:aws:sns:eu-west-1:123:alerts" {
		t.Fatalf("sns config not normalized: %#v", alerts.SNS)
	}
	if alerts.SNS.AccessKeyID != "AKIA" {
		t.Fatalf("inline aws credentials not decoded: %#v", alerts.SNS)
	}
}

func TestLoadEnabledReadsJSON(t *testing.T) {
	path := writeSinks(t, "publishers.json", `{"publishers":[{"id":"gcp","type":"pubsub","pubsub":{"project_id":"p","topic":"t"}}]}`)

	cfgs, err := LoadEnabled(path)
	if err != nil {
		t.Fatalf("LoadEnabled: %v", err)
	}
	if len(cfgs) != 1 || cfgs[0].PubSub.Topic != "t" {
		t.Fatalf("unexpected configs %#v", cfgs)
	}
}

func TestLoadEnabledRejectsBadEntries(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "duplicate id",
			raw:  "publishers:\n  - {id: dup, type: http, http: {url: a}}\n  - {id: dup, type: http, enabled: false}\n",
			want: "duplicate publisher id",
		},
		{name: "missing block", raw: "publishers:\n  - {id: h, type: http}\n", want: "http config required"},
		{name: "missing fields", raw: "publishers:\n  - {id: q, type: sqs, sqs: {uri: q}}\n", want: "sqs.region"},
		{name: "unknown type", raw: "publishers:\n  - {id: k, type: kafka}\n", want: "unknown publisher type"},
		{name: "no id", raw: "publishers:\n  - {type: http}\n", want: "id is required"},
		{name: "empty", raw: "publishers: []\n", want: "no publishers"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadEnabled(writeSinks(t, "publishers.yaml", tc.raw))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestRequiredListsMissingFields(t *testing.T) {
	got := (&PubSubConfig{}).missing()
	if strings.Join(got, ",") != "pubsub.project_id,pubsub.topic" {
		t.Fatalf("missing = %v", got)
	}
}
