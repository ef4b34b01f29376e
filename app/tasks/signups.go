package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ReportSignupsName is the job name of ReportSignups.
const ReportSignupsName = "report_signups"

// SignupCounter is satisfied by *repository.Users.
type SignupCounter interface {
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// ReportSignups logs how many users registered during the last hour.
type ReportSignups struct {
	users SignupCounter
	log   *slog.Logger
	now   func() time.Time
}

func NewReportSignups(users SignupCounter, log *slog.Logger) *ReportSignups {
	return &ReportSignups{users: users, log: log, now: time.Now}
}

func (t *ReportSignups) Name() string     { return ReportSignupsName }
func (t *ReportSignups) Schedule() string { return "0 * * * *" }

func (t *ReportSignups) Handle(ctx context.Context) error {
	since := t.now().Add(-time.Hour)
	n, err := t.users.CountCreatedSince(ctx, since)
	if err != nil {
		return fmt.Errorf("count signups: %w", err)
	}
	t.log.InfoContext(ctx, "hourly signups",
		slog.Int64("count", n),
		slog.Time("since", since),
	)
	return nil
}
