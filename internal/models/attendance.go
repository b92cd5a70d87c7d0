package models

// SheetStatus represents the lifecycle of an attendance sheet. CLOSED is
// terminal; no transition back to OPEN is exposed.
type SheetStatus string

const (
	SheetOpen   SheetStatus = "OPEN"
	SheetClosed SheetStatus = "CLOSED"
)

// AttendanceStatus represents a single student's mark on a sheet.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
	AttendanceUnknown AttendanceStatus = "UNKNOWN"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused, AttendanceUnknown:
		return true
	default:
		return false
	}
}

// SheetEntry is one student's row on an attendance sheet.
type SheetEntry struct {
	StudentID   string           `json:"studentId"`
	StudentName string           `json:"studentName,omitempty"`
	Status      AttendanceStatus `json:"status"`
	Comment     string           `json:"comment,omitempty"`
}

// AttendanceSheet is the roster for one (group, date, lesson) triple. The
// upstream API creates the sheet on first request, so a fetched sheet always
// exists server-side.
type AttendanceSheet struct {
	SheetID  string       `json:"sheetId"`
	GroupID  string       `json:"groupId"`
	Date     string       `json:"date"`
	Lesson   int          `json:"lesson"`
	Status   SheetStatus  `json:"status"`
	Students []SheetEntry `json:"students"`
}

// SaveSheetRequest carries the full roster in one batched write.
type SaveSheetRequest struct {
	Items []SheetEntry `json:"items"`
}
