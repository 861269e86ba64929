package message

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PubsubTopic names a routing topic. Opaque to the binding.
type PubsubTopic string

// DefaultPubsubTopic is the network's default routing topic.
const DefaultPubsubTopic PubsubTopic = "/waku/2/default-waku/proto"

func (t PubsubTopic) String() string {
	return string(t)
}

// ContentTopic identifies application content within a pubsub topic,
// rendered as /{application}/{version}/{name}/{encoding}.
type ContentTopic struct {
	ApplicationName    string
	ApplicationVersion string
	ContentTopicName   string
	Encoding           string
}

// NewContentTopic assembles a content topic from its four parts.
func NewContentTopic(application, version, name, encoding string) ContentTopic {
	return ContentTopic{
		ApplicationName:    application,
		ApplicationVersion: version,
		ContentTopicName:   name,
		Encoding:           encoding,
	}
}

// ParseContentTopic parses the /{application}/{version}/{name}/{encoding}
// form.
func ParseContentTopic(s string) (ContentTopic, error) {
	if !strings.HasPrefix(s, "/") {
		return ContentTopic{}, fmt.Errorf("content topic %q must start with /", s)
	}
	parts := strings.Split(s[1:], "/")
	if len(parts) != 4 {
		return ContentTopic{}, fmt.Errorf("content topic %q must have four segments", s)
	}
	for _, part := range parts {
		if part == "" {
			return ContentTopic{}, fmt.Errorf("content topic %q has an empty segment", s)
		}
	}
	return ContentTopic{
		ApplicationName:    parts[0],
		ApplicationVersion: parts[1],
		ContentTopicName:   parts[2],
		Encoding:           parts[3],
	}, nil
}

func (c ContentTopic) String() string {
	return fmt.Sprintf("/%s/%s/%s/%s",
		c.ApplicationName, c.ApplicationVersion, c.ContentTopicName, c.Encoding)
}

// MarshalJSON renders the topic in its slash-separated string form.
func (c ContentTopic) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ContentTopic) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseContentTopic(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
