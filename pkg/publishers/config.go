package publishers

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sink types understood by DefaultRegistry.
const (
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypeHTTP   = "http"
	TypePubSub = "pubsub"
)

const (
	defaultHTTPMethod  = "POST"
	defaultHTTPTimeout = 5
)

// PublisherConfig declares one sink. Exactly the block matching Type is read.
type PublisherConfig struct {
	ID      string        `yaml:"id"`
	Type    string        `yaml:"type"`
	Enabled *bool         `yaml:"enabled"`
	SQS     *SQSConfig    `yaml:"sqs"`
	SNS     *SNSConfig    `yaml:"sns"`
	HTTP    *HTTPConfig   `yaml:"http"`
	PubSub  *PubSubConfig `yaml:"pubsub"`
}

// AWSCredentials pins static keys. Left empty, the default AWS chain applies.
type AWSCredentials struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type SQSConfig struct {
	QueueURL       string `yaml:"uri"`
	Region         string `yaml:"region"`
	AWSCredentials `yaml:",inline"`
}

type SNSConfig struct {
	TopicARN       string `yaml:"topic_arn"`
	Region         string `yaml:"region"`
	AWSCredentials `yaml:",inline"`
}

type HTTPConfig struct {
	URL            string            `yaml:"url"`
	Method         string            `yaml:"method"`
	Headers        map[string]string `yaml:"headers"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
}

type PubSubConfig struct {
	ProjectID       string `yaml:"project_id"`
	Topic           string `yaml:"topic"`
	CredentialsFile string `yaml:"credentials_file"`
}

// settings is implemented by every per-type block.
type settings interface {
	normalize()
	missing() []string
}

// LoadEnabled reads a YAML (or JSON) sinks file and returns the enabled
// entries, normalized and validated. Disabled entries still have to be unique
// by id but are not otherwise checked.
func LoadEnabled(path string) ([]PublisherConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	// YAML is a superset of JSON, so one decoder serves both formats.
	var file struct {
		Publishers []PublisherConfig `yaml:"publishers"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode publishers file: %w", err)
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	seen := make(map[string]struct{}, len(file.Publishers))
	enabled := make([]PublisherConfig, 0, len(file.Publishers))
	for i, cfg := range file.Publishers {
		cfg.ID = strings.TrimSpace(cfg.ID)
		if cfg.ID == "" {
			return nil, fmt.Errorf("publishers[%d]: id is required", i)
		}
		if _, dup := seen[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}

		if cfg.Enabled != nil && !*cfg.Enabled {
			continue
		}
		if err := cfg.prepare(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		enabled = append(enabled, cfg)
	}
	return enabled, nil
}

// prepare lower-cases the type, normalizes the matching block and checks its
// required fields.
func (c *PublisherConfig) prepare() error {
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	if c.Type == "" {
		return fmt.Errorf("type is required for publisher %q", c.ID)
	}

	block, ok := c.block()
	if !ok {
		return fmt.Errorf("unknown publisher type %q for %q", c.Type, c.ID)
	}
	if block == nil {
		return fmt.Errorf("%s config required for publisher %q", c.Type, c.ID)
	}
	block.normalize()
	if missing := block.missing(); len(missing) > 0 {
		return fmt.Errorf("publisher %q is missing %s", c.ID, strings.Join(missing, ", "))
	}
	return nil
}

// block returns the settings for c.Type; ok is false for an unknown type.
func (c *PublisherConfig) block() (s settings, ok bool) {
	switch c.Type {
	case TypeSQS:
		if c.SQS != nil {
			return c.SQS, true
		}
	case TypeSNS:
		if c.SNS != nil {
			return c.SNS, true
		}
	case TypeHTTP:
		if c.HTTP != nil {
			return c.HTTP, true
		}
	case TypePubSub:
		if c.PubSub != nil {
			return c.PubSub, true
		}
	default:
		return nil, false
	}
	return nil, true
}

func (c *SQSConfig) normalize() {
	c.QueueURL = strings.TrimSpace(c.QueueURL)
	c.Region = strings.TrimSpace(c.Region)
	c.AWSCredentials.normalize()
}

func (c *SQSConfig) missing() []string {
	return required("sqs", map[string]string{"uri": c.QueueURL, "region": c.Region})
}

func (c *SNSConfig) normalize() {
	c.TopicARN = strings.TrimSpace(c.TopicARN)
	c.Region = strings.TrimSpace(c.Region)
	c.AWSCredentials.normalize()
}

func (c *SNSConfig) missing() []string {
	return required("sns", map[string]string{"topic_arn": c.TopicARN, "region": c.Region})
}

func (c *HTTPConfig) normalize() {
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = defaultHTTPMethod
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultHTTPTimeout
	}
	headers := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
			headers[k] = v
		}
	}
	c.Headers = headers
}

func (c *HTTPConfig) missing() []string {
	return required("http", map[string]string{"url": c.URL})
}

func (c *PubSubConfig) normalize() {
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.Topic = strings.TrimSpace(c.Topic)
	c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
}

func (c *PubSubConfig) missing() []string {
	return required("pubsub", map[string]string{"project_id": c.ProjectID, "topic": c.Topic})
}

func (c *AWSCredentials) normalize() {
	c.AccessKeyID = strings.TrimSpace(c.AccessKeyID)
	c.SecretAccessKey = strings.TrimSpace(c.SecretAccessKey)
}

// required lists the empty fields as "<prefix>.<name>", sorted by name.
func required(prefix string, fields map[string]string) []string {
	var out []string
	for name, value := range fields {
		if value == "" {
			out = append(out, prefix+"."+name)
		}
	}
	sort.Strings(out)
	return out
}
