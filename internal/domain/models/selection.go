package models

import "time"

// SelectionState is the transient UI state owned by one session.
type SelectionState struct {
	SelectAll       bool      `json:"select_all"`
	SelectedSectors []string  `json:"selected_sectors"` // in dataset sector order
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	ShowRawData     bool      `json:"show_raw_data"`
}

// IsSelected reports whether sector is part of the selection.
func (s SelectionState) IsSelected(sector string) bool {
	for _, v := range s.SelectedSectors {
		if v == sector {
			return true
		}
	}
	return false
}
