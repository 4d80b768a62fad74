package publishers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePublishersFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writePublishersFile(t, "publishers.yaml", `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
	if enabled[0].HTTP.Method != "POST" || enabled[0].HTTP.TimeoutSeconds != webhookDefaultTimeout {
		t.Fatalf("webhook defaults not applied: %#v", enabled[0].HTTP)
	}
}

func TestLoadRegistryParsesCloudPublishers(t *testing.T) {
	path := writePublishersFile(t, "publishers.json", `{"publishers": [
  {"id": "queue", "type": "SQS", "sqs": {"uri": " https://sqs.example.com/q ", "region": "eu-west-1", "access_key_id": "AK", "secret_access_key": "SK"}},
  {"id": "topic", "type": "sns", "sns": {"topic_arn": "arn:aws:sns:eu-west-1:1:products", "region": "eu-west-1"}},
  {"id": "gcp", "type": "gcp_pubsub", "gcp_pubsub": {"project_id": "shop", "topic": "products"}}
]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.Enabled()) != 3 {
		t.Fatalf("expected 3 enabled publishers, got %d", len(reg.Enabled()))
	}

	queue, ok := reg.ByID("queue")
	if !ok || queue.Type != TypeSQS || queue.SQS.QueueURL != "https://sqs.example.com/q" || queue.SQS.AccessKeyID != "AK" {
		t.Fatalf("unexpected sqs config %#v", queue.SQS)
	}
	topic, ok := reg.ByID("topic")
	if !ok || topic.SNS == nil || topic.SNS.TopicARN != "arn:aws:sns:eu-west-1:1:products" {
		t.Fatalf("unexpected sns config %#v", topic)
	}
	gcp, ok := reg.ByID(" gcp ")
	if !ok || gcp.GCPPubSub == nil || gcp.GCPPubSub.Topic != "products" {
		t.Fatalf("unexpected gcp config %#v", gcp)
	}
}

func TestLoadRegistryExpandsEnvironment(t *testing.T) {
	t.Setenv("STORE_HOOK_SECRET", "s3cret")
	t.Setenv("STORE_HOOK_HOST", "hooks.example.com")
	path := writePublishersFile(t, "publishers.yml", `
publishers:
  - id: hook
    type: http
    http:
      url: https://${STORE_HOOK_HOST}/knawat
      secret: ${STORE_HOOK_SECRET}
      insecure_skip_verify: true
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	hook, _ := reg.ByID("hook")
	if hook.HTTP.URL != "https://hooks.example.com/knawat" || hook.HTTP.Secret != "s3cret" || !hook.HTTP.InsecureSkipVerify {
		t.Fatalf("unexpected webhook config %#v", hook.HTTP)
	}
}

func TestLoadRegistryRejects(t *testing.T) {
	cases := map[string]struct {
		name, body, want string
	}{
		"unknown field": {
			name: "p.yaml",
			body: "publishers:\n  - id: hook\n    type: http\n    http:\n      url: https://x\n      retries: 3\n",
			want: "retries",
		},
		"duplicate id": {
			name: "p.yaml",
			body: "publishers:\n  - id: a\n    type: http\n    http: {url: \"https://x\"}\n  - id: a\n    type: http\n    http: {url: \"https://y\"}\n",
			want: "duplicate",
		},
		"empty file": {
			name: "p.yaml",
			body: "",
			want: "no publishers",
		},
		"bad extension": {
			name: "p.toml",
			body: "publishers = []",
			want: "unsupported extension",
		},
	}
	for name, tc := range cases {
		path := writePublishersFile(t, tc.name, tc.body)
		_, err := LoadRegistry(path)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", name, tc.want, err)
		}
	}
}

func TestValidateRejectsIncompleteSinks(t *testing.T) {
	cases := map[string]PublisherConfig{
		"http without block":   {ID: "h", Type: TypeHTTP},
		"http without scheme":  {ID: "h", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "hooks.example.com"}},
		"sns without block":    {ID: "s", Type: TypeSNS},
		"sns without topic":    {ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "eu-west-1"}},
		"sns without region":   {ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn"}},
		"pubsub without block": {ID: "g", Type: TypeGCPPubSub},
		"pubsub without topic": {ID: "g", Type: TypeGCPPubSub, GCPPubSub: &GCPQueueConfig{ProjectID: "p"}},
		"sqs without region":   {ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q"}},
		"missing type":         {ID: "x"},
		"missing publisher id": {Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://x"}},
	}
	for name, cfg := range cases {
		if err := cfg.validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}

	custom := PublisherConfig{ID: "k", Type: "kafka"}
	if err := custom.validate(); err != nil {
		t.Fatalf("custom types are validated by their builder, got %v", err)
	}
}
