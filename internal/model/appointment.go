package model

import "time"

// AppointmentRecord is one submitted booking. Date and time are kept as
// the submitter provided them (no timezone modeling); CreatedAt is set
// by the store on insert and never changes.
type AppointmentRecord struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Service   string
	Date      string // 2006-01-02
	Time      string // 15:04
	Notes     string
	CreatedAt time.Time
}
