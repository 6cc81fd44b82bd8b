package domain

import "time"

// FreeBusyPeriod is one availability window inside a queried range.
type FreeBusyPeriod struct {
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Status BusyStatus `json:"status"`
}

// BusyStatus is the availability classification of a period.
type BusyStatus string

const (
	BusyStatusFree        BusyStatus = "Free"
	BusyStatusBusy        BusyStatus = "Busy"
	BusyStatusTentative   BusyStatus = "Tentative"
	BusyStatusOutOfOffice BusyStatus = "OutOfOffice"
)
