package repositories

import (
	"context"
	"errors"
	"time"

	"muster/internal/database"
	"muster/internal/logger"
	. "muster/internal/models"
	"muster/internal/services"
	"muster/internal/utils"

	"gorm.io/gorm"
)

// CheckinRepository is the append-only admission log. Events are never
// updated or deleted through it.
type CheckinRepository interface {
	Create(ctx context.Context, event *CheckinEvent) error
	GetLatestByPersonnelID(ctx context.Context, personnelID int) (*CheckinEvent, error)
	List(ctx context.Context, from, to *time.Time) ([]CheckinRow, error)
	ListDay(ctx context.Context, day time.Time) ([]CheckinRow, error)
}

type checkinRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCheckin(db database.DB) CheckinRepository {
	return &checkinRepository{
		db:  db,
		log: logger.New("checkinRepository"),
	}
}

func (r *checkinRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *checkinRepository) Create(ctx context.Context, event *CheckinEvent) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(event).Error; err != nil {
		return log.Err("failed to create checkin", err, "personnelID", event.PersonnelID)
	}

	return nil
}

// GetLatestByPersonnelID returns the most recent event by store timestamp,
// or (nil, nil) when the personnel has never checked in.
func (r *checkinRepository) GetLatestByPersonnelID(ctx context.Context, personnelID int) (*CheckinEvent, error) {
	log := r.log.Function("GetLatestByPersonnelID")

	var event CheckinEvent
	err := r.getDB(ctx).
		Where("personnel_id = ?", personnelID).
		Order("checked_in_at DESC").
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get latest checkin", err, "personnelID", personnelID)
	}

	return &event, nil
}

type checkinJoinRow struct {
	ID          int
	Name        string
	FirstName   *string
	LastName    *string
	Rank        *string
	CheckedInAt time.Time
}

// List returns joined history rows, newest first. Nil bounds are open ends.
func (r *checkinRepository) List(ctx context.Context, from, to *time.Time) ([]CheckinRow, error) {
	return r.list(ctx, from, to, "checkins.checked_in_at DESC")
}

// ListDay returns a single day's rows in ascending time, for export.
func (r *checkinRepository) ListDay(ctx context.Context, day time.Time) ([]CheckinRow, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := utils.EndOfDay(start)
	return r.list(ctx, &start, &end, "checkins.checked_in_at ASC")
}

func (r *checkinRepository) list(ctx context.Context, from, to *time.Time, order string) ([]CheckinRow, error) {
	log := r.log.Function("list")

	query := r.getDB(ctx).
		Table("checkins").
		Select("checkins.id, personnels.name, personnels.first_name, personnels.last_name, personnels.rank, checkins.checked_in_at").
		Joins("JOIN personnels ON personnels.id = checkins.personnel_id").
		Order(order)

	if from != nil {
		query = query.Where("checkins.checked_in_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("checkins.checked_in_at <= ?", *to)
	}

	var raw []checkinJoinRow
	if err := query.Scan(&raw).Error; err != nil {
		return nil, log.Err("failed to list checkins", err)
	}

	rows := make([]CheckinRow, 0, len(raw))
	for _, row := range raw {
		personnel := Personnel{
			Name:      row.Name,
			FirstName: row.FirstName,
			LastName:  row.LastName,
		}
		var rank string
		if row.Rank != nil {
			rank = *row.Rank
		}
		rows = append(rows, CheckinRow{
			ID:          row.ID,
			Name:        personnel.DisplayName(),
			Rank:        rank,
			CheckedInAt: row.CheckedInAt,
		})
	}

	return rows, nil
}
