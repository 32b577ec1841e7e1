// Package notify pushes assignment notifications to human agents through
// pluggable messenger backends. Notification failures never affect the
// routing result; the decision is already committed by the time a message
// goes out.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/handoff-sh/handoff/internal/domain"
)

// ErrPlatformNotFound is returned when a messenger platform is not registered.
var ErrPlatformNotFound = errors.New("notify: platform not found")

// Messenger delivers a message to a recipient on one platform. The
// recipient is the agent's email; each backend resolves it to a platform
// identity its own way.
type Messenger interface {
	SendNotification(ctx context.Context, recipient, message string) error
}

// MessengerRegistry maps platform names to Messenger implementations.
type MessengerRegistry interface {
	Get(platform string) (Messenger, bool)
	Platforms() []string
}

// Notifier dispatches routing notifications through every registered
// messenger platform.
type Notifier struct {
	messengers MessengerRegistry
}

func New(messengers MessengerRegistry) *Notifier {
	return &Notifier{messengers: messengers}
}

// AssignmentMade tells the selected agent about their new case.
func (n *Notifier) AssignmentMade(ctx context.Context, agent *domain.HumanAgent, d *domain.RoutingDecision) {
	message := fmt.Sprintf(
		"New escalation assigned to you (match %.0f%%, est. %d min). Escalation %s.",
		d.MatchScore, d.EstimatedResolutionMinutes, d.EscalationID,
	)
	n.broadcast(ctx, agent.Email, message)
}

// EscalationQueued reports a case that could not be assigned. Sent to the
// configured operations recipient, not to an agent.
func (n *Notifier) EscalationQueued(ctx context.Context, opsRecipient string, d *domain.RoutingDecision) {
	if opsRecipient == "" {
		return
	}
	message := fmt.Sprintf(
		"Escalation %s queued at position %d (est. wait %d min); no agent available.",
		d.EscalationID, d.QueuePosition, d.EstimatedWaitMinutes,
	)
	n.broadcast(ctx, opsRecipient, message)
}

func (n *Notifier) broadcast(ctx context.Context, recipient, message string) {
	for _, platform := range n.messengers.Platforms() {
		if err := n.NotifyVia(ctx, platform, recipient, message); err != nil {
			log.Warn().Err(err).Str("platform", platform).Str("recipient", recipient).Msg("notification failed")
		}
	}
}

// NotifyVia sends a notification using a specific platform directly.
func (n *Notifier) NotifyVia(ctx context.Context, platform, recipient, message string) error {
	msg, ok := n.messengers.Get(platform)
	if !ok {
		return fmt.Errorf("notify.Notifier.NotifyVia: platform %q: %w", platform, ErrPlatformNotFound)
	}

	if err := msg.SendNotification(ctx, recipient, message); err != nil {
		return fmt.Errorf("notify.Notifier.NotifyVia: send: %w", err)
	}

	return nil
}
