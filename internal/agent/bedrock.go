package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/pkg/logger"
)

const (
	anthropicVersion = "bedrock-2023-05-31"
	defaultModelID   = "anthropic.claude-3-sonnet-20240229-v1:0"
	defaultRegion    = "us-east-1"
)

// ErrEmptyReply is returned when the model produced no text.
var ErrEmptyReply = errors.New("agent: model returned no text")

const systemPrompt = `You are the assistant inside a marketing Campaign Manager. You help marketers plan campaigns, reason about budgets and channels, and interpret campaign analytics. Be concise and practical. When the user wants to build a campaign, suggest they say "help me create a campaign" to start the guided flow.`

// InvokeModelAPI is the subset of the Bedrock runtime client used here.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockConfig configures a BedrockReplier.
type BedrockConfig struct {
	ModelID         string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	MaxTokens       int
	Temperature     float64
	// HistoryLimit caps how many prior messages are sent. Zero means 20.
	HistoryLimit int
}

type bedrockMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
	Temperature      float64          `json:"temperature,omitempty"`
}

type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// BedrockReplier answers through an Anthropic model on AWS Bedrock.
type BedrockReplier struct {
	client InvokeModelAPI
	cfg    BedrockConfig
}

// NewBedrockReplier loads AWS configuration and builds a runtime client.
// Static credentials are used when both keys are set; otherwise the
// default credential chain applies.
func NewBedrockReplier(ctx context.Context, cfg BedrockConfig) (*BedrockReplier, error) {
	cfg = withDefaults(cfg)
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("agent: load aws config: %w", err)
	}
	logger.Info("bedrock replier initialized", "model", cfg.ModelID, "region", cfg.Region)
	return NewBedrockReplierWithClient(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

// NewBedrockReplierWithClient uses an existing client.
func NewBedrockReplierWithClient(client InvokeModelAPI, cfg BedrockConfig) *BedrockReplier {
	return &BedrockReplier{client: client, cfg: withDefaults(cfg)}
}

func withDefaults(cfg BedrockConfig) BedrockConfig {
	if cfg.ModelID == "" {
		cfg.ModelID = defaultModelID
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	return cfg
}

// IsConfigured is always true.
func (b *BedrockReplier) IsConfigured() bool { return true }

// ModelID returns the model in use.
func (b *BedrockReplier) ModelID() string { return b.cfg.ModelID }

// Reply invokes the model with the recent history and the user text.
func (b *BedrockReplier) Reply(ctx context.Context, text string, history []domain.Message, contextData map[string]any) (string, error) {
	req := bedrockRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        b.cfg.MaxTokens,
		System:           buildSystem(contextData),
		Messages:         buildMessages(history, text, b.cfg.HistoryLimit),
		Temperature:      b.cfg.Temperature,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("agent: marshal request: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.cfg.ModelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("agent: invoke model: %w", err)
	}

	var resp bedrockResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("agent: parse response: %w", err)
	}
	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		return "", ErrEmptyReply
	}

	logger.Debug("bedrock reply", "input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens, "stop_reason", resp.StopReason)
	return reply, nil
}

func buildSystem(contextData map[string]any) string {
	if len(contextData) == 0 {
		return systemPrompt
	}
	data, err := json.Marshal(contextData)
	if err != nil {
		return systemPrompt
	}
	return systemPrompt + "\n\nCurrent workspace context (JSON):\n" + string(data)
}

// buildMessages converts the log into the alternating user/assistant form
// the Anthropic messages API requires: the list starts with a user turn,
// consecutive turns from the same role are merged, and the new text is the
// final user turn.
func buildMessages(history []domain.Message, text string, limit int) []bedrockMessage {
	if len(history) > limit {
		history = history[len(history)-limit:]
	}

	var msgs []bedrockMessage
	push := func(role, content string) {
		if strings.TrimSpace(content) == "" {
			return
		}
		if len(msgs) == 0 && role != string(domain.RoleUser) {
			return
		}
		if n := len(msgs); n > 0 && msgs[n-1].Role == role {
			msgs[n-1].Content[0].Text += "\n\n" + content
			return
		}
		msgs = append(msgs, bedrockMessage{Role: role, Content: []contentBlock{{Type: "text", Text: content}}})
	}
	for _, m := range history {
		push(string(m.Role), m.Content)
	}
	push(string(domain.RoleUser), text)
	return msgs
}
