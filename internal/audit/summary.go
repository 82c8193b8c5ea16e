package audit

import (
	"bytes"
	"encoding/json"
	"fmt"

	"team-timelog/internal/calendar"
	"team-timelog/internal/models"
	"team-timelog/internal/timelog"
)

const displayDayLayout = "02/01/2006"

type snapshot struct {
	Date  string   `json:"date"`
	Hours *float64 `json:"hours"`
}

func decode(data []byte) (snapshot, bool) {
	if len(data) == 0 {
		return snapshot{}, false
	}
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil || s.Hours == nil {
		return snapshot{}, false
	}
	return s, true
}

func (s snapshot) day() string {
	d, err := calendar.ParseDay(s.Date)
	if err != nil {
		return s.Date
	}
	return d.Format(displayDayLayout)
}

func (s snapshot) hours() string {
	return timelog.FormatHours(*s.Hours) + "h"
}

// Summarize describes an entry in one line, e.g. "5h → 8h (15/03/2024)".
// Entries whose snapshots cannot be read summarize to "-".
func Summarize(entry models.AuditLog) string {
	oldRow, hasOld := decode(entry.OldData)
	newRow, hasNew := decode(entry.NewData)

	switch entry.Action {
	case models.AuditCreate:
		if hasNew {
			return fmt.Sprintf("Created %s for %s", newRow.hours(), newRow.day())
		}
	case models.AuditUpdate:
		if hasOld && hasNew {
			return fmt.Sprintf("%s → %s (%s)", oldRow.hours(), newRow.hours(), newRow.day())
		}
	case models.AuditDelete:
		if hasOld {
			return fmt.Sprintf("Deleted %s for %s", oldRow.hours(), oldRow.day())
		}
	}
	return "-"
}

// Detail is the raw dump shown on the entry page.
type Detail struct {
	Entry   models.AuditEntry
	Summary string
	OldData string
	NewData string
}

func NewDetail(entry models.AuditEntry) Detail {
	return Detail{
		Entry:   entry,
		Summary: Summarize(entry.AuditLog),
		OldData: indent(entry.OldData),
		NewData: indent(entry.NewData),
	}
}

func indent(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}
