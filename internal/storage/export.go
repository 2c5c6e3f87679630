package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/springsim/internal/dynamo"
)

// fixed columns ahead of the x0,y0,... pairs
var csvPrefix = []string{"step", "time", "active", "potential", "kinetic", "contacts"}

type ExportData struct {
	RunMetadata
	Frames []dynamo.Snapshot `json:"frames"`
}

func WriteJSON(w io.Writer, meta RunMetadata, result *dynamo.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: meta, Frames: result.Frames})
}

// WriteCSV writes one row per frame. Rows are as wide as their particle
// count; the header covers the widest frame.
func WriteCSV(w io.Writer, frames []dynamo.Snapshot) error {
	cw := csv.NewWriter(w)

	width := 0
	for _, f := range frames {
		width = max(width, len(f.Pos))
	}

	header := append([]string(nil), csvPrefix...)
	for i := range width {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Step),
			formatFloat(f.Time),
			strconv.Itoa(len(f.Pos)),
			formatFloat(f.Potential),
			formatFloat(f.Kinetic),
			strconv.Itoa(f.Contacts),
		}
		for _, p := range f.Pos {
			row = append(row, formatFloat(p.X), formatFloat(p.Y))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) ([]dynamo.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamo.Snapshot{}, nil
	}

	frames := make([]dynamo.Snapshot, 0, len(records)-1)
	for line, record := range records[1:] {
		f, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("frames.csv line %d: %w", line+2, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseRow(record []string) (dynamo.Snapshot, error) {
	var f dynamo.Snapshot
	if len(record) < len(csvPrefix) {
		return f, fmt.Errorf("expected at least %d fields, got %d", len(csvPrefix), len(record))
	}

	var err error
	if f.Step, err = strconv.Atoi(record[0]); err != nil {
		return f, err
	}
	if f.Time, err = strconv.ParseFloat(record[1], 64); err != nil {
		return f, err
	}
	active, err := strconv.Atoi(record[2])
	if err != nil {
		return f, err
	}
	if f.Potential, err = strconv.ParseFloat(record[3], 64); err != nil {
		return f, err
	}
	if f.Kinetic, err = strconv.ParseFloat(record[4], 64); err != nil {
		return f, err
	}
	if f.Contacts, err = strconv.Atoi(record[5]); err != nil {
		return f, err
	}

	coords := record[len(csvPrefix):]
	if len(coords) != 2*active {
		return f, fmt.Errorf("active %d but %d coordinates", active, len(coords))
	}
	f.Pos = make([]dynamo.Vec2, active)
	for i := range f.Pos {
		if f.Pos[i].X, err = strconv.ParseFloat(coords[2*i], 64); err != nil {
			return f, err
		}
		if f.Pos[i].Y, err = strconv.ParseFloat(coords[2*i+1], 64); err != nil {
			return f, err
		}
	}
	return f, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
