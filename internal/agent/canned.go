package agent

import (
	"context"
	"strings"

	"github.com/ignite/campaign-manager/internal/domain"
)

const (
	cannedCampaignReply = "I can help you plan campaigns and budgets. Say \"help me create a campaign\" and I'll walk you through it step by step, starting with recommendations based on your past results."

	cannedAnalyticsReply = "Your recent campaigns show steady traffic, with email and social driving most engagement. Connect an assistant model for deeper performance analysis, or start a new campaign to put these insights to work."

	cannedMenuReply = `I'm running in demo mode. Here's what I can do:
- Create a new campaign ("help me create a campaign")
- Talk about campaign budgets
- Summarize analytics, traffic and performance`
)

// CannedReplier returns deterministic keyword-matched replies. It backs
// demo mode when no model is configured.
type CannedReplier struct{}

// NewCannedReplier returns the demo-mode replier.
func NewCannedReplier() *CannedReplier { return &CannedReplier{} }

// Reply never fails.
func (CannedReplier) Reply(_ context.Context, text string, _ []domain.Message, _ map[string]any) (string, error) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "campaign"), strings.Contains(lower, "budget"):
		return cannedCampaignReply, nil
	case strings.Contains(lower, "analytics"), strings.Contains(lower, "traffic"), strings.Contains(lower, "performance"):
		return cannedAnalyticsReply, nil
	default:
		return cannedMenuReply, nil
	}
}

// IsConfigured is always false.
func (CannedReplier) IsConfigured() bool { return false }
