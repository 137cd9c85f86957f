package survey

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader matches the column set of the original coursework export.
var csvHeader = []string{
	"Site Number",
	"Site Name",
	"Point Number",
	"Distance from Bank (m)",
	"Depth (m)",
}

// WriteCSV writes one row per sounding, sites in order.
func WriteCSV(w io.Writer, s Survey) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, site := range s.Sites {
		for j, m := range site.Soundings {
			row := []string{
				strconv.Itoa(i + 1),
				site.Name,
				strconv.Itoa(j + 1),
				strconv.FormatFloat(m.Distance, 'f', 2, 64),
				strconv.FormatFloat(m.Depth, 'f', 2, 64),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
