// Package agent provides the general-purpose conversational reply used when
// no campaign-creation session is active.
package agent

import (
	"context"

	"github.com/ignite/campaign-manager/internal/domain"
)

// Replier answers free-form user messages.
type Replier interface {
	// Reply returns the assistant text for text given the prior history
	// and optional structured context about the current workspace.
	Reply(ctx context.Context, text string, history []domain.Message, contextData map[string]any) (string, error)
	// IsConfigured is false when the replier is a canned demo fallback.
	IsConfigured() bool
}
