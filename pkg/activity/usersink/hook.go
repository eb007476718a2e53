package usersink

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-publishing/pkg/activity"
	"github.com/goliatone/go-publishing/pkg/interfaces"
)

// Hook forwards activity events to a go-users compatible activity sink.
type Hook struct {
	Sink interfaces.ActivitySink
}

// Notify maps the event onto the go-users record contract and logs it.
// Events without a verb are ignored so half-built events never reach the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	if strings.TrimSpace(event.Verb) == "" {
		return nil
	}

	record := interfaces.ActivityRecord{
		Verb:       event.Verb,
		ActorID:    parseUUID(event.ActorID),
		UserID:     parseUUID(event.UserID),
		TenantID:   parseUUID(event.TenantID),
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		OccurredAt: event.OccurredAt,
	}

	data := make(map[string]any, len(event.Metadata)+2)
	for key, value := range event.Metadata {
		data[key] = value
	}
	if event.DefinitionCode != "" {
		data["definition_code"] = event.DefinitionCode
	}
	if len(event.Recipients) > 0 {
		data["recipients"] = event.Recipients
	}
	if len(data) > 0 {
		record.Data = data
	}

	return h.Sink.Log(ctx, record)
}

func parseUUID(value string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return id
}
