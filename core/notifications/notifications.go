// Package notifications publishes resource change notifications to Kafka or SQS.
package notifications

import (
	"context"
	"errors"

	"github.com/relabs-tech/jobly/core"
)

// Multi sends every notification to all its notifiers
type Multi []core.Notifier

// Notify implements core.Notifier. All notifiers are called, the errors are joined.
func (m Multi) Notify(ctx context.Context, notification core.Notification) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
