package messages

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aatumaykin/coursebot/internal/constants"
)

//go:embed faq.yaml
var defaultFAQ []byte

// FAQItem is one question with its answer, both plain text.
type FAQItem struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// ParseFAQ decodes a YAML list of FAQ items.
func ParseFAQ(data []byte) ([]FAQItem, error) {
	var items []FAQItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse faq: %w", err)
	}
	for i, item := range items {
		if strings.TrimSpace(item.Question) == "" || strings.TrimSpace(item.Answer) == "" {
			return nil, fmt.Errorf("faq item %d: question and answer are required", i+1)
		}
	}
	return items, nil
}

// DefaultFAQ returns the built-in FAQ.
func DefaultFAQ() []FAQItem {
	items, err := ParseFAQ(defaultFAQ)
	if err != nil {
		panic(err)
	}
	return items
}

// ResolveFAQ returns overrides when there are any, the built-in list otherwise.
func ResolveFAQ(overrides []FAQItem) []FAQItem {
	if len(overrides) > 0 {
		return overrides
	}
	return DefaultFAQ()
}

// FormatFAQ renders /faq.
func FormatFAQ(items []FAQItem, supportChannel string) string {
	var b strings.Builder
	b.WriteString(constants.MsgFAQHeader)
	for i, item := range items {
		b.WriteString(fmt.Sprintf(constants.MsgFAQItem, i+1,
			EscapeMarkdownV2(item.Question), EscapeMarkdownV2(item.Answer)))
	}
	b.WriteString(fmt.Sprintf(constants.MsgFAQFooter, EscapeMarkdownV2(supportChannel)))
	return b.String()
}
