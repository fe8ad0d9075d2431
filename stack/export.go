package stack

import (
	"errors"
	"io"

	"ccmon/model"
)

var (
	ErrNoSelection = errors.New("no process selected")
	ErrNoPath      = errors.New("no executable path for the selected row")
)

// ExportAll writes every view row in tab-separated form.
func (v *View) ExportAll(w io.Writer) error {
	return model.WriteTSV(w, v.rows)
}

// ExportVisible writes the rows inside the scroll window.
func (v *View) ExportVisible(w io.Writer) error {
	return model.WriteTSV(w, v.Visible())
}

// ExportSelected writes the header and the selected row.
func (v *View) ExportSelected(w io.Writer) error {
	r, ok := v.SelectedRow()
	if !ok {
		return ErrNoSelection
	}
	return model.WriteTSV(w, []model.ProcRow{r})
}

// SelectedPID is the single-field pid copy of the selection.
func (v *View) SelectedPID() (string, error) {
	if _, ok := v.SelectedRow(); !ok {
		return "", ErrNoSelection
	}
	return model.FormatPID(v.Selected), nil
}

// SelectedPath is the single-field path copy of the selection. Group
// headers only carry a path when all members share it.
func (v *View) SelectedPath() (string, error) {
	r, ok := v.SelectedRow()
	if !ok {
		return "", ErrNoSelection
	}
	if r.Path == "" {
		return "", ErrNoPath
	}
	return model.FormatPath(r.Path), nil
}
