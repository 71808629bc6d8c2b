package usecase

import (
	"fmt"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	"SectorPulse/pkg/util"
)

// SelectionController owns one session's UI state. It is not safe for
// concurrent use; a session applies its events one at a time.
type SelectionController struct {
	ds *models.Dataset

	selectAll bool
	checked   map[string]bool
	start     time.Time
	end       time.Time
	showRaw   bool
}

// NewSelectionController starts with nothing selected, the full date span
// and the raw table hidden.
func NewSelectionController(ds *models.Dataset) *SelectionController {
	return &SelectionController{
		ds:      ds,
		checked: make(map[string]bool, len(ds.Sectors)),
		start:   ds.MinDate,
		end:     ds.MaxDate,
	}
}

// SetSelectAll seeds every sector checkbox with v. Later SetSector calls
// still change individual sectors.
func (c *SelectionController) SetSelectAll(v bool) {
	c.selectAll = v
	for _, s := range c.ds.Sectors {
		c.checked[s] = v
	}
}

// SetSector toggles a single sector checkbox.
func (c *SelectionController) SetSector(sector string, v bool) error {
	if !c.ds.HasSector(sector) {
		return fmt.Errorf("%w: %q", domrepo.ErrUnknownSector, sector)
	}
	c.checked[sector] = v
	return nil
}

// SetDateRange narrows the visible window. Zero bounds mean the data bound,
// inverted ranges are swapped and everything is clamped to the data span.
func (c *SelectionController) SetDateRange(start, end time.Time) {
	c.start, c.end = util.ClampRange(start, end, c.ds.MinDate, c.ds.MaxDate)
}

func (c *SelectionController) SetShowRawData(v bool) {
	c.showRaw = v
}

// State returns a copy of the current selection with sectors in dataset order.
func (c *SelectionController) State() models.SelectionState {
	selected := make([]string, 0, len(c.checked))
	for _, s := range c.ds.Sectors {
		if c.checked[s] {
			selected = append(selected, s)
		}
	}
	return models.SelectionState{
		SelectAll:       c.selectAll,
		SelectedSectors: selected,
		Start:           c.start,
		End:             c.end,
		ShowRawData:     c.showRaw,
	}
}

// NormalizeState validates a selection built outside a controller: select-all
// expands to every sector, duplicates collapse, sectors follow dataset order
// and the date range is clamped like SetDateRange.
func NormalizeState(ds *models.Dataset, in models.SelectionState) (models.SelectionState, error) {
	want := make(map[string]bool, len(in.SelectedSectors))
	for _, s := range in.SelectedSectors {
		if !ds.HasSector(s) {
			return models.SelectionState{}, fmt.Errorf("%w: %q", domrepo.ErrUnknownSector, s)
		}
		want[s] = true
	}

	out := models.SelectionState{
		SelectAll:       in.SelectAll,
		SelectedSectors: make([]string, 0, len(want)),
		ShowRawData:     in.ShowRawData,
	}
	for _, s := range ds.Sectors {
		if in.SelectAll || want[s] {
			out.SelectedSectors = append(out.SelectedSectors, s)
		}
	}
	out.Start, out.End = util.ClampRange(in.Start, in.End, ds.MinDate, ds.MaxDate)
	return out, nil
}
