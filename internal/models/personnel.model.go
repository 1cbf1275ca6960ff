package models

import (
	"strings"
	"time"
)

// Personnel is a person eligible to check in. DeviceToken, when present, is
// an opaque secret a registered device sends instead of the personnel id;
// the unique index on it is enforced by the store.
type Personnel struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);not null"             json:"name"`
	FirstName   *string `gorm:"type:varchar(255)"                      json:"firstName"`
	LastName    *string `gorm:"type:varchar(255)"                      json:"lastName"`
	Rank        *string `gorm:"type:varchar(64)"                       json:"rank"`
	DeviceToken *string `gorm:"type:varchar(64);uniqueIndex"           json:"deviceToken"`
	IsActive    bool    `gorm:"not null;default:true"                  json:"isActive"`
}

// DisplayName prefers the first/last name pair and falls back to the raw
// name field for records created before the split columns existed.
func (p Personnel) DisplayName() string {
	if p.FirstName != nil || p.LastName != nil {
		var first, last string
		if p.FirstName != nil {
			first = *p.FirstName
		}
		if p.LastName != nil {
			last = *p.LastName
		}
		if name := strings.TrimSpace(first + " " + last); name != "" {
			return name
		}
	}
	return p.Name
}

// CheckinEvent is an append-only admission record. CheckedInAt is assigned
// at write time by the persistence layer, never taken from the caller.
type CheckinEvent struct {
	ID          int       `gorm:"type:integer;primaryKey;autoIncrement" json:"id"`
	PersonnelID int       `gorm:"not null;index"                        json:"personnelId"`
	CheckedInAt time.Time `gorm:"autoCreateTime"                        json:"checkedInAt"`
}

func (CheckinEvent) TableName() string {
	return "checkins"
}

type Admin struct {
	BaseModel
	Username     string `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null"            json:"-"`
}

type CheckinRequest struct {
	PersonnelID int    `json:"personnel_id"`
	DeviceToken string `json:"device_id"`
}

// CheckinNotice is the payload broadcast to connected dashboards and echoed
// back to the device that checked in.
type CheckinNotice struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Rank string `json:"rank"`
	Time string `json:"time"`
}

// CheckinRow is one line of check-in history joined with its personnel.
type CheckinRow struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Rank        string    `json:"rank"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

type CreatePersonnelRequest struct {
	Name        string `json:"name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Rank        string `json:"rank"`
	DeviceToken string `json:"device_id"`
}

// TokenGrant is the result of issuing or rotating a device token: the token
// itself plus the registration URI an external renderer encodes into a QR.
type TokenGrant struct {
	Token       string `json:"token"`
	RegisterURL string `json:"registerUrl"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	Current  string `json:"current"`
	Password string `json:"password"`
}
