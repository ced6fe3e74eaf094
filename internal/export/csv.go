// Package export writes partition results as spreadsheet-friendly CSV.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abrezinsky/rosterdraw/internal/models"
)

const bom = "\ufeff"

var header = []string{"group", "motto", "member name"}

// WriteGroupsCSV writes one row per member with a UTF-8 BOM and a header.
// Every field is quoted so spreadsheet apps never split names on commas.
func WriteGroupsCSV(w io.Writer, groups []models.Group) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(bom); err != nil {
		return err
	}
	if err := writeRow(bw, header...); err != nil {
		return err
	}
	for _, g := range groups {
		for _, m := range g.Members {
			if err := writeRow(bw, g.Name, g.Motto, m.Name); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Filename is the download name for an export made at t
func Filename(t time.Time) string {
	return fmt.Sprintf("groups_%s.csv", t.Format("2006-01-02"))
}

func writeRow(w *bufio.Writer, fields ...string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(f)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
