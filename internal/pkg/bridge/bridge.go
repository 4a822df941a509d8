package bridge

import (
	"encoding/json"
	"sync"

	"cloud_drive_agent/internal/pkg/cache"
	"cloud_drive_agent/internal/pkg/notify"
	"cloud_drive_agent/internal/pkg/realtime"
)

// Binder translates realtime events into one notification plus one cache
// group invalidation each. Bind/Unbind are symmetric so a channel change
// never leaves duplicate handlers behind.
type Binder struct {
	cache    CacheInvalidator
	notifier notify.Notifier

	mu   sync.Mutex
	subs []*realtime.Subscription
}

func NewBinder(cache CacheInvalidator, notifier notify.Notifier) *Binder {
	return &Binder{cache: cache, notifier: notifier}
}

// Bind subscribes to all seven event kinds on the given channel. Any
// previous binding is torn down first. A nil channel just unbinds.
func (b *Binder) Bind(channel *realtime.Channel) {
	b.Unbind()
	if channel == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subscribe := func(event string, fn realtime.Handler) {
		b.subs = append(b.subs, channel.Subscribe(event, fn))
	}

	subscribe(realtime.EventFileCreated, func(p json.RawMessage) {
		b.notifier.Success(withName("File uploaded", p))
		b.cache.Invalidate(cache.GroupFiles)
	})
	subscribe(realtime.EventFileDeleted, func(p json.RawMessage) {
		b.notifier.Info("File deleted")
		b.cache.Invalidate(cache.GroupFiles)
	})
	subscribe(realtime.EventFileRestored, func(p json.RawMessage) {
		b.notifier.Success("File restored")
		b.cache.Invalidate(cache.GroupFiles)
	})
	subscribe(realtime.EventFileUpdated, func(p json.RawMessage) {
		b.notifier.Success(withName("File updated", p))
		b.cache.Invalidate(cache.GroupFiles)
	})
	subscribe(realtime.EventFolderCreated, func(p json.RawMessage) {
		b.notifier.Success(withName("Folder created", p))
		b.cache.Invalidate(cache.GroupFiles)
	})
	subscribe(realtime.EventShareCreated, func(p json.RawMessage) {
		b.notifier.Success("Shared with " + granteeOrFallback(p))
		b.cache.Invalidate(cache.GroupShares)
	})
	subscribe(realtime.EventShareRevoked, func(p json.RawMessage) {
		b.notifier.Info("Share revoked")
		b.cache.Invalidate(cache.GroupShares)
	})
}

func (b *Binder) Unbind() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}

type eventPayload struct {
	Name            string `json:"name"`
	SharedWithEmail string `json:"shared_with_email"`
}

func parsePayload(p json.RawMessage) eventPayload {
	var payload eventPayload
	if len(p) > 0 {
		// Malformed payloads degrade to the bare message.
		json.Unmarshal(p, &payload)
	}
	return payload
}

func withName(message string, p json.RawMessage) string {
	if name := parsePayload(p).Name; name != "" {
		return message + ": " + name
	}
	return message
}

func granteeOrFallback(p json.RawMessage) string {
	if email := parsePayload(p).SharedWithEmail; email != "" {
		return email
	}
	return "user"
}
