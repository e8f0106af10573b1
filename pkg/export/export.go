// Package export handles the file formats at the edges of the optimizer:
// lot inputs in JSON or YAML, and schedule or conflict outputs in JSON or
// CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/herdplan/herdplan/core/calendar"
	"github.com/herdplan/herdplan/core/conflict"
	"github.com/herdplan/herdplan/core/optimizer"
)

// WriteJSON writes the optimization report to w in indented JSON.
func WriteJSON(w io.Writer, report *optimizer.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteCSV writes every handling date of every ranked schedule to w, one
// row per (schedule, lot, round, day).
func WriteCSV(w io.Writer, report *optimizer.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "profile", "lot_id", "round", "protocol_day", "date", "weekend"}); err != nil {
		return err
	}
	for rank, s := range report.Schedules {
		for _, d := range calendar.ExpandAll(s.Lots) {
			rec := []string{
				strconv.Itoa(rank + 1),
				s.Profile,
				d.LotID,
				strconv.Itoa(d.Round),
				strconv.Itoa(d.ProtocolDay),
				calendar.Date(d.Epoch).Format("2006-01-02"),
				strconv.FormatBool(calendar.IsWeekend(d.Epoch)),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// conflictRow is the JSON shape of one detected conflict.
type conflictRow struct {
	Kind  string   `json:"kind"`
	Date  string   `json:"date"`
	Lots  []string `json:"lots"`
	Dates int      `json:"handling_dates"`
}

func conflictRows(conflicts []conflict.Conflict) []conflictRow {
	rows := make([]conflictRow, 0, len(conflicts))
	for _, c := range conflicts {
		seen := make(map[string]struct{}, len(c.Dates))
		var lots []string
		for _, d := range c.Dates {
			if _, ok := seen[d.LotID]; ok {
				continue
			}
			seen[d.LotID] = struct{}{}
			lots = append(lots, d.LotID)
		}
		rows = append(rows, conflictRow{
			Kind: c.Kind.String(),
			Date: c.Date().Format("2006-01-02"),
			Lots: lots,
			Dates: len(c.Dates),
		})
	}
	return rows
}

// WriteConflictsJSON writes detected conflicts to w in indented JSON.
func WriteConflictsJSON(w io.Writer, conflicts []conflict.Conflict) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(conflictRows(conflicts))
}

// WriteConflictsCSV writes detected conflicts to w in CSV format.
func WriteConflictsCSV(w io.Writer, conflicts []conflict.Conflict) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"kind", "date", "lots", "handling_dates"}); err != nil {
		return err
	}
	for _, r := range conflictRows(conflicts) {
		rec := []string{r.Kind, r.Date, strings.Join(r.Lots, "|"), strconv.Itoa(r.Dates)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
