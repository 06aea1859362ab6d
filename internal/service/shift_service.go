package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/form"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/ports"
)

const savedAtLayout = "15:04:05"

type ShiftService struct {
	Clock  businessday.Clock
	Shifts ports.ShiftStore
	Logger *slog.Logger
}

type ShiftResult struct {
	Submission domain.ShiftSubmission
	SavedAt    string
}

// Submit validates the form and upserts today's row for the agent.
// Validation failures return form.ErrAgentRequired without touching the store.
func (s ShiftService) Submit(ctx context.Context, in form.ShiftInput) (ShiftResult, error) {
	row, err := in.Submission(s.Clock.Today())
	if err != nil {
		shiftSubmissions.WithLabelValues("invalid").Inc()
		return ShiftResult{}, err
	}
	if err := s.Shifts.Upsert(ctx, row); err != nil {
		shiftSubmissions.WithLabelValues("error").Inc()
		return ShiftResult{}, fmt.Errorf("save shift for %s: %w", row.AgentName, err)
	}
	shiftSubmissions.WithLabelValues("ok").Inc()
	s.logger().Info("shift saved", "agent", row.AgentName, "date", businessday.Key(row.ShiftDate),
		"calls", row.CallsMade, "set", row.AppointmentsSet, "shown", row.AppointmentsShown, "sold", row.CarsSold)
	return ShiftResult{Submission: row, SavedAt: s.Clock.Now().Format(savedAtLayout)}, nil
}

// IsValidation reports whether err was caused by operator input rather than the store.
func IsValidation(err error) bool {
	return errors.Is(err, form.ErrAgentRequired)
}

func (s ShiftService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
