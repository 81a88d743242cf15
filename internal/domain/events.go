package domain

import "time"

type ScheduleEvent struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

const (
	EventShiftCreated    = "shift_created"
	EventShiftDeleted    = "shift_deleted"
	EventImportCompleted = "import_completed"
)

type ShiftEventData struct {
	ShiftID    int64     `json:"shiftId"`
	ProviderID int64     `json:"providerId"`
	ClientID   int64     `json:"clientId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

type ImportEventData struct {
	BatchID   string     `json:"batchId"`
	Entity    EntityType `json:"entity"`
	Mode      string     `json:"mode"`
	Committed int        `json:"committed"`
	Failed    int        `json:"failed"`
}
