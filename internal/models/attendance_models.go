package models

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
)

// Attendance is a single check-in (or no-show) of a member.
type Attendance struct {
	Base
	Date     time.Time        `json:"date" db:"date"`
	Status   AttendanceStatus `json:"status" db:"status" validate:"required,oneof=PRESENT ABSENT"`
	MemberID string           `json:"memberId" db:"member_id" validate:"required"`
	ClubID   string           `json:"clubId" db:"club_id" validate:"required"`
	Notes    string           `json:"notes,omitempty" db:"notes"`
}
