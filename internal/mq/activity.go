package mq

import (
	"context"
	"encoding/json"

	"github.com/ieti-edutrack/apiserver/types"
)

const eventTypeActivity = "activity.recorded"

// ActivityPublisher forwards activity entries to a channel so other
// dashboards can follow them. Delivery is best-effort.
type ActivityPublisher struct {
	mq      *MQ
	channel string
}

func NewActivityPublisher(mq *MQ, channel string) *ActivityPublisher {
	return &ActivityPublisher{mq: mq, channel: channel}
}

// PublishActivity encodes entry as JSON and publishes it.
func (p *ActivityPublisher) PublishActivity(ctx context.Context, entry types.Activity) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = p.mq.Publish(ctx, p.channel, data, map[string]string{
		"event_type":   eventTypeActivity,
		"content_type": "application/json",
	})
	return err
}
