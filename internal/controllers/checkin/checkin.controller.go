package checkinController

import (
	"context"
	"time"

	"muster/config"
	"muster/internal/events"
	"muster/internal/logger"
	. "muster/internal/models"
	"muster/internal/repositories"
	"muster/internal/utils"

	"github.com/google/uuid"
)

// EventPublisher is the fan-out capability used on accepted admissions.
// *events.EventBus satisfies it; tests substitute a recorder.
type EventPublisher interface {
	Publish(channel string, event events.Event) error
}

// CheckinChannel mirrors websockets.CheckinChannel without importing the
// transport layer.
const CheckinChannel = "checkins"

type CheckinController struct {
	personnelRepo repositories.PersonnelRepository
	checkinRepo   repositories.CheckinRepository
	publisher     EventPublisher
	cooldown      time.Duration
	log           logger.Logger
}

func New(
	personnelRepo repositories.PersonnelRepository,
	checkinRepo repositories.CheckinRepository,
	publisher EventPublisher,
	config config.Config,
) *CheckinController {
	return &CheckinController{
		personnelRepo: personnelRepo,
		checkinRepo:   checkinRepo,
		publisher:     publisher,
		cooldown:      config.CheckinCooldown,
		log:           logger.New("CheckinController"),
	}
}

// Resolve maps a check-in request to an active personnel record. A device
// token takes precedence over a personnel id. Inactive and unknown
// identities are indistinguishable to the caller.
func (cc *CheckinController) Resolve(ctx context.Context, request CheckinRequest) (*Personnel, error) {
	log := cc.log.Function("Resolve")

	var personnel *Personnel
	var err error
	if request.DeviceToken != "" {
		personnel, err = cc.personnelRepo.GetActiveByToken(ctx, request.DeviceToken)
	} else {
		personnel, err = cc.personnelRepo.GetActiveByID(ctx, request.PersonnelID)
	}
	if err != nil {
		return nil, log.Err("failed to resolve identity", err)
	}

	if personnel == nil {
		return nil, ErrNotFound
	}

	return personnel, nil
}

// CheckIn runs the admission sequence: resolve, enforce the cooldown against
// the latest stored event, append the new event, then notify observers. The
// check-then-act pair is not atomic; a near-simultaneous pair of requests
// for the same personnel can both pass the check, which is tolerated.
func (cc *CheckinController) CheckIn(ctx context.Context, request CheckinRequest) (CheckinNotice, error) {
	log := cc.log.Function("CheckIn")

	personnel, err := cc.Resolve(ctx, request)
	if err != nil {
		return CheckinNotice{}, err
	}

	last, err := cc.checkinRepo.GetLatestByPersonnelID(ctx, personnel.ID)
	if err != nil {
		return CheckinNotice{}, log.Err("failed to get latest checkin", err, "personnelID", personnel.ID)
	}

	if last != nil && time.Since(last.CheckedInAt) < cc.cooldown {
		return CheckinNotice{}, ErrTooSoon
	}

	event := &CheckinEvent{PersonnelID: personnel.ID}
	if err := cc.checkinRepo.Create(ctx, event); err != nil {
		return CheckinNotice{}, log.Err("failed to record checkin", err, "personnelID", personnel.ID)
	}

	var rank string
	if personnel.Rank != nil {
		rank = *personnel.Rank
	}

	notice := CheckinNotice{
		ID:   event.ID,
		Name: personnel.DisplayName(),
		Rank: rank,
		Time: event.CheckedInAt.Format(time.RFC3339),
	}

	cc.notify(notice)

	return notice, nil
}

// notify is best-effort: the admission is already durable, a failed
// broadcast only costs currently-connected observers this one event.
func (cc *CheckinController) notify(notice CheckinNotice) {
	event := events.Event{
		ID:      uuid.New().String(),
		Type:    "new_checkin",
		Channel: CheckinChannel,
		Data: map[string]any{
			"id":   notice.ID,
			"name": notice.Name,
			"rank": notice.Rank,
			"time": notice.Time,
		},
		Timestamp: time.Now(),
	}

	if err := cc.publisher.Publish(CheckinChannel, event); err != nil {
		cc.log.Function("notify").Warn("failed to broadcast checkin", "checkinID", notice.ID, "error", err)
	}
}

// History lists joined check-in rows, newest first. from/to are inclusive
// day bounds in "2006-01-02" form; either may be empty for an open end.
func (cc *CheckinController) History(ctx context.Context, from, to string) ([]CheckinRow, error) {
	log := cc.log.Function("History")

	var fromTime, toTime *time.Time
	if from != "" {
		day, err := utils.ParseDay(from)
		if err != nil {
			return nil, log.Err("invalid from date", err, "from", from)
		}
		fromTime = &day
	}
	if to != "" {
		day, err := utils.ParseDay(to)
		if err != nil {
			return nil, log.Err("invalid to date", err, "to", to)
		}
		end := utils.EndOfDay(day)
		toTime = &end
	}

	rows, err := cc.checkinRepo.List(ctx, fromTime, toTime)
	if err != nil {
		return nil, log.Err("failed to list checkins", err)
	}

	return rows, nil
}

// DayReport lists a single day's rows in ascending time, for export.
func (cc *CheckinController) DayReport(ctx context.Context, date string) ([]CheckinRow, error) {
	log := cc.log.Function("DayReport")

	day, err := utils.ParseDay(date)
	if err != nil {
		return nil, log.Err("invalid date", err, "date", date)
	}

	rows, err := cc.checkinRepo.ListDay(ctx, day)
	if err != nil {
		return nil, log.Err("failed to list day checkins", err, "date", date)
	}

	return rows, nil
}
