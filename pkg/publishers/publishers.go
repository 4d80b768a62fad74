package publishers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sink types accepted in the publishers file.
const (
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeHTTP      = "http"
	TypeGCPPubSub = "gcp_pubsub"
)

const (
	webhookDefaultMethod  = "POST"
	webhookDefaultTimeout = 5
)

// PublisherConfig declares one product event sink.
type PublisherConfig struct {
	ID        string               `yaml:"id"`
	Type      string               `yaml:"type"`
	Enabled   *bool                `yaml:"enabled"`
	SQS       *SQSPublisherConfig  `yaml:"sqs"`
	SNS       *SNSPublisherConfig  `yaml:"sns"`
	HTTP      *HTTPPublisherConfig `yaml:"http"`
	GCPPubSub *GCPQueueConfig      `yaml:"gcp_pubsub"`
}

// SQSPublisherConfig sends product events to an SQS queue.
type SQSPublisherConfig struct {
	QueueURL        string `yaml:"uri"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// SNSPublisherConfig sends product events to an SNS topic.
type SNSPublisherConfig struct {
	TopicARN        string `yaml:"topic_arn"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// HTTPPublisherConfig posts product events to a store webhook.
// When Secret is set every body is signed with HMAC-SHA256.
// Certificates are verified unless InsecureSkipVerify is set.
type HTTPPublisherConfig struct {
	URL                string            `yaml:"url"`
	Method             string            `yaml:"method"`
	Headers            map[string]string `yaml:"headers"`
	TimeoutSeconds     int               `yaml:"timeout_seconds"`
	Secret             string            `yaml:"secret"`
	InsecureSkipVerify bool              `yaml:"insecure_skip_verify"`
}

// Registry holds the validated sink definitions of a publishers file.
type Registry struct {
	publishers []PublisherConfig
	byID       map[string]PublisherConfig
}

// LoadRegistry reads a YAML or JSON publishers file. ${VAR} references are
// expanded from the environment before decoding so secrets stay out of the file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("publishers file %q: unsupported extension %q", path, ext)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}
	return parseRegistry(raw)
}

// parseRegistry decodes the file body; JSON documents are valid YAML.
func parseRegistry(raw []byte) (*Registry, error) {
	var file struct {
		Publishers []PublisherConfig `yaml:"publishers"`
	}
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(raw)))))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode publishers file: %w", err)
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file declares no publishers")
	}

	reg := &Registry{byID: make(map[string]PublisherConfig, len(file.Publishers))}
	for i, cfg := range file.Publishers {
		cfg.normalize()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := reg.byID[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.publishers = append(reg.publishers, cfg)
		reg.byID[cfg.ID] = cfg
	}
	return reg, nil
}

// ByID returns the sink definition with the given id.
func (r *Registry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}
	cfg, ok := r.byID[strings.TrimSpace(id)]
	return cfg, ok
}

// Enabled returns the sinks that take part in sync passes, in file order.
func (r *Registry) Enabled() []PublisherConfig {
	if r == nil {
		return nil
	}
	var out []PublisherConfig
	for _, cfg := range r.publishers {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue reports the enabled flag; sinks are enabled unless disabled explicitly.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

func (cfg *PublisherConfig) normalize() {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.SQS != nil {
		cfg.SQS.normalize()
	}
	if cfg.SNS != nil {
		cfg.SNS.normalize()
	}
	if cfg.HTTP != nil {
		cfg.HTTP.normalize()
	}
	if cfg.GCPPubSub != nil {
		cfg.GCPPubSub.normalize()
	}
}

func (cfg PublisherConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}

	var err error
	switch cfg.Type {
	case "":
		err = errors.New("type is required")
	case TypeSQS:
		if err = requireBlock(cfg.SQS != nil, cfg.Type); err == nil {
			err = cfg.SQS.validate()
		}
	case TypeSNS:
		if err = requireBlock(cfg.SNS != nil, cfg.Type); err == nil {
			err = cfg.SNS.validate()
		}
	case TypeHTTP:
		if err = requireBlock(cfg.HTTP != nil, cfg.Type); err == nil {
			err = cfg.HTTP.validate()
		}
	case TypeGCPPubSub:
		if err = requireBlock(cfg.GCPPubSub != nil, cfg.Type); err == nil {
			err = cfg.GCPPubSub.validate()
		}
	}
	// Types outside this list are left to their registered builder.
	if err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return nil
}

func requireBlock(present bool, typ string) error {
	if !present {
		return fmt.Errorf("%s block is required", typ)
	}
	return nil
}

func (c *SQSPublisherConfig) normalize() {
	c.QueueURL = strings.TrimSpace(c.QueueURL)
	c.Region = strings.TrimSpace(c.Region)
	c.AccessKeyID = strings.TrimSpace(c.AccessKeyID)
	c.SecretAccessKey = strings.TrimSpace(c.SecretAccessKey)
}

func (c *SQSPublisherConfig) validate() error {
	if c.QueueURL == "" {
		return errors.New("sqs.uri is required")
	}
	if c.Region == "" {
		return errors.New("sqs.region is required")
	}
	return nil
}

func (c *SNSPublisherConfig) normalize() {
	c.TopicARN = strings.TrimSpace(c.TopicARN)
	c.Region = strings.TrimSpace(c.Region)
	c.AccessKeyID = strings.TrimSpace(c.AccessKeyID)
	c.SecretAccessKey = strings.TrimSpace(c.SecretAccessKey)
}

func (c *SNSPublisherConfig) validate() error {
	if c.TopicARN == "" {
		return errors.New("sns.topic_arn is required")
	}
	if c.Region == "" {
		return errors.New("sns.region is required")
	}
	return nil
}

func (c *GCPQueueConfig) normalize() {
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.Topic = strings.TrimSpace(c.Topic)
	c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
}

func (c *GCPQueueConfig) validate() error {
	if c.ProjectID == "" || c.Topic == "" {
		return errors.New("gcp_pubsub.project_id and gcp_pubsub.topic are required")
	}
	return nil
}

func (c *HTTPPublisherConfig) normalize() {
	c.URL = strings.TrimSpace(c.URL)
	c.Secret = strings.TrimSpace(c.Secret)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = webhookDefaultMethod
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = webhookDefaultTimeout
	}

	headers := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
			headers[k] = v
		}
	}
	c.Headers = nil
	if len(headers) > 0 {
		c.Headers = headers
	}
}

func (c *HTTPPublisherConfig) validate() error {
	if c.URL == "" {
		return errors.New("http.url is required")
	}
	if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return fmt.Errorf("http.url %q must be an http(s) url", c.URL)
	}
	return nil
}
