package services

import (
	"context"
	"time"

	"github.com/ieti-edutrack/apiserver/internal/activity"
	"github.com/ieti-edutrack/apiserver/internal/observability"
	"github.com/ieti-edutrack/apiserver/types"
	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

// ActivityPublisher fans activity entries out to other consumers.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, entry types.Activity) error
}

// ActivityService records admin-relevant events in the in-memory log and
// optionally forwards them to a publisher.
type ActivityService struct {
	log       *activity.Log
	publisher ActivityPublisher
	logger    zerolog.Logger
}

// NewActivityService wraps log. publisher may be nil.
func NewActivityService(log *activity.Log, publisher ActivityPublisher, logger zerolog.Logger) *ActivityService {
	return &ActivityService{
		log:       log,
		publisher: publisher,
		logger:    logger.With().Str("component", "activity_service").Logger(),
	}
}

// Record appends description to the log. Publishing happens in the
// background and never fails the caller.
func (s *ActivityService) Record(ctx context.Context, description string) types.Activity {
	entry := s.log.Record(description)
	observability.ActivityEvents().Inc()

	if s.publisher != nil {
		pubCtx := context.WithoutCancel(ctx)
		go func() {
			pubCtx, cancel := context.WithTimeout(pubCtx, publishTimeout)
			defer cancel()
			if err := s.publisher.PublishActivity(pubCtx, entry); err != nil {
				s.logger.Warn().Err(err).Str("description", entry.Description).Msg("failed to publish activity")
			}
		}()
	}
	return entry
}

// List returns the recent entries, most recent first.
func (s *ActivityService) List() []types.Activity {
	return s.log.List()
}
