package relay

import "fmt"

// ScopeFilter admits relay traffic only from the configured source chat.
type ScopeFilter struct {
	platform     Platform
	sourceChatID int64
}

// NewScopeFilter creates a filter for one source chat on one platform.
func NewScopeFilter(platform Platform, sourceChatID int64) ScopeFilter {
	return ScopeFilter{platform: platform, sourceChatID: sourceChatID}
}

// Check returns an error wrapping ErrUnauthorizedChat when msg is outside scope.
func (f ScopeFilter) Check(msg InboundMessage) error {
	if msg.Platform != f.platform || msg.ChatID != f.sourceChatID {
		return fmt.Errorf("%w: %s chat %d", ErrUnauthorizedChat, msg.Platform, msg.ChatID)
	}
	return nil
}
