package model

import (
	"fmt"
	"io"
	"strings"
)

// TSVHeader is the first line of every tabular export.
const TSVHeader = "PID\tCPU%\tMem(MB)\tOwner\tNet(remote)\tName\tPath\r\n"

// WriteTSV writes the header followed by one tab-separated, CRLF
// terminated line per row.
func WriteTSV(w io.Writer, rows []ProcRow) error {
	if _, err := io.WriteString(w, TSVHeader); err != nil {
		return err
	}
	for i := range rows {
		if err := writeTSVLine(w, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

// FormatTSV is WriteTSV into a string.
func FormatTSV(rows []ProcRow) string {
	var b strings.Builder
	_ = WriteTSV(&b, rows)
	return b.String()
}

func writeTSVLine(w io.Writer, r *ProcRow) error {
	_, err := fmt.Fprintf(w, "%d\t%.1f\t%.1f\t%s\t%s\t%s\t%s\r\n",
		r.Pid,
		r.CPU,
		r.MemMB(),
		r.Owner,
		r.Net(),
		r.Name,
		r.Path,
	)
	return err
}

// FormatPID is the single-field pid copy.
func FormatPID(pid int32) string {
	return fmt.Sprintf("%d\r\n", pid)
}

// FormatPath is the single-field path copy.
func FormatPath(path string) string {
	return path + "\r\n"
}
