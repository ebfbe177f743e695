package activity

import (
	"strings"
	"time"
)

// ShareEventInput describes the fields for a layer-registration event.
type ShareEventInput struct {
	Class      string
	Owner      string
	SnapshotID string
	Members    []string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildShareRegisteredEvent constructs a normalized event for a successful
// Share registration.
func BuildShareRegisteredEvent(input ShareEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Owner != "" {
		metadata = ensureMetadata(metadata)
		metadata["owner"] = input.Owner
	}
	if input.SnapshotID != "" {
		metadata = ensureMetadata(metadata)
		metadata["snapshot_id"] = input.SnapshotID
	}
	if len(input.Members) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["members"] = append([]string{}, input.Members...)
	}

	objectID := strings.TrimSpace(input.Class)
	if objectID == "" {
		objectID = strings.TrimSpace(input.SnapshotID)
	}

	return Event{
		Verb:       "share.registered",
		ObjectType: "protected.record",
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

// GuardEventInput describes the fields for a guard-violation event.
type GuardEventInput struct {
	Guard      string
	Class      string
	Operation  string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildGuardBlockedEvent constructs a normalized event for a construction or
// extension attempt a guard rejected.
func BuildGuardBlockedEvent(input GuardEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Guard != "" {
		metadata = ensureMetadata(metadata)
		metadata["guard"] = input.Guard
	}
	if input.Operation != "" {
		metadata = ensureMetadata(metadata)
		metadata["operation"] = input.Operation
	}

	return Event{
		Verb:       "guard.blocked",
		ObjectType: "protected.class",
		ObjectID:   strings.TrimSpace(input.Class),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
