package convert

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-tangra/go-tangra-displays/internal/collector"
	"github.com/go-tangra/go-tangra-displays/internal/display"
	"github.com/go-tangra/go-tangra-displays/internal/render"
)

// DisplayList renders a list of displays.
type DisplayList []collector.DisplayInfo

func (l DisplayList) Table() render.Table {
	return render.Table{
		Headers: []string{"#", "NAME", "DESCRIPTION", "TECHNOLOGY", "INTERNAL", "PRIMARY", "BOUNDS", "WORK AREA", "MODEL", "PATH"},
		Rows:    displayRows(l),
		Footer:  fmt.Sprintf("%d display(s)", len(l)),
	}
}

// InventoryView renders an Inventory with its host in the title.
type InventoryView struct {
	*collector.Inventory
}

func (v InventoryView) Table() render.Table {
	title := fmt.Sprintf("%s  %s %s  collected %s",
		v.Hostname, v.System.Manufacturer, v.System.Model, v.CollectedAt.Format(time.RFC3339))
	t := DisplayList(v.Displays).Table()
	t.Title = title
	if v.ID != "" {
		t.Footer += "  snapshot " + v.ID
	}
	return t
}

// SummaryList renders snapshot summaries.
type SummaryList []Summary

func (l SummaryList) Table() render.Table {
	t := render.Table{
		Headers: []string{"ID", "HOSTNAME", "SERIAL", "COLLECTED", "DISPLAYS"},
		Footer:  fmt.Sprintf("%d snapshot(s)", len(l)),
	}
	for _, s := range l {
		t.Rows = append(t.Rows, []string{
			s.ID,
			s.Hostname,
			s.SystemSerial,
			s.CollectedAt.Local().Format(time.DateTime),
			strconv.Itoa(s.DisplayCount),
		})
	}
	return t
}

// SightingList renders the history of a display device.
type SightingList []Sighting

func (l SightingList) Table() render.Table {
	t := render.Table{
		Headers: []string{"COLLECTED", "HOSTNAME", "NAME", "TECHNOLOGY", "RESOLUTION", "SNAPSHOT"},
		Footer:  fmt.Sprintf("%d sighting(s)", len(l)),
	}
	for _, s := range l {
		t.Rows = append(t.Rows, []string{
			s.CollectedAt.Local().Format(time.DateTime),
			s.Hostname,
			s.DeviceName,
			s.OutputTechnology,
			fmt.Sprintf("%dx%d", s.Width, s.Height),
			s.SnapshotID,
		})
	}
	return t
}

func displayRows(displays []collector.DisplayInfo) [][]string {
	rows := make([][]string, len(displays))
	for i, d := range displays {
		rows[i] = []string{
			strconv.Itoa(i),
			d.Name,
			d.Description,
			d.OutputTechnology.String(),
			yesNo(d.IsInternal()),
			yesNo(d.Primary),
			formatRect(d.Bounds),
			formatRect(d.WorkArea),
			d.Model,
			d.Path,
		}
	}
	return rows
}

func formatRect(r display.Rect) string {
	return fmt.Sprintf("%dx%d@%d,%d", r.Width(), r.Height(), r.Left, r.Top)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
