package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
)

// QGenda shift export schema, version 1. Export-only; renaming or reordering
// these columns breaks downstream QGenda imports, so any change must ship as
// a new version alongside this one. Location carries the client facility name
// (QGenda's Location names the site a task runs at; the client record's
// location field is its city, which QGenda has no column for).
var qgendaHeader = []string{"StaffId", "StaffName", "TaskName", "Location", "Date", "StartTime", "EndTime", "Notes"}

const (
	qgendaDateLayout = "01/02/2006"
	qgendaTimeLayout = "15:04"
)

// WriteQGenda writes one QGenda row per shift, resolving staff and location
// names from the given provider and client records.
func WriteQGenda(w io.Writer, shifts []*domain.Shift, providers map[int64]*domain.Provider, clients map[int64]*domain.Client) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(qgendaHeader); err != nil {
		return err
	}

	for _, sh := range shifts {
		staffName := ""
		if p, ok := providers[sh.ProviderID]; ok {
			staffName = p.Name
		}
		location := ""
		if c, ok := clients[sh.ClientID]; ok {
			location = c.Name
		}

		record := []string{
			strconv.FormatInt(sh.ProviderID, 10),
			staffName,
			sh.ShiftType,
			location,
			sh.Start.Format(qgendaDateLayout),
			sh.Start.Format(qgendaTimeLayout),
			sh.End.Format(qgendaTimeLayout),
			sh.Notes,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
