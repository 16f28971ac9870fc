package models

import (
	"time"
)

// CheckIn records a staff shift. A user may have at most one row with a
// null CheckOutTime at any time; the rule is enforced in the handler, not
// by a database constraint.
type CheckIn struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID       string     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
}

func (CheckIn) TableName() string {
	return "check_ins"
}
