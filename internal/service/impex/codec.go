package impex

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// Decoded is the outcome of parsing an interchange file.
type Decoded struct {
	Records []domain.Record
	// Skipped counts data rows dropped for being blank or too short.
	Skipped int
}

// Decode parses r in format f. A header mismatch is a validation error and
// yields no records.
func Decode(f Format, r io.Reader) (*Decoded, error) {
	if f.Encoding == EncodingXLSX {
		return decodeXLSX(f, r)
	}
	return decodeCSV(f, r)
}

// Encode writes recs to w in format f, header row first.
func Encode(f Format, w io.Writer, recs []domain.Record) error {
	if f.Encoding == EncodingXLSX {
		return encodeXLSX(f, w, recs)
	}
	return encodeCSV(f, w, recs)
}

func decodeCSV(f Format, r io.Reader) (*Decoded, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows are checked against the layout below
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewValidationError("header", "file is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := f.matchHeader(header); err != nil {
		return nil, err
	}

	width := len(f.Header())
	out := &Decoded{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		if len(row) < width {
			out.Skipped++
			continue
		}
		out.add(f.fromRow(row))
	}
	return out, nil
}

func encodeCSV(f Format, w io.Writer, recs []domain.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(f.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range recs {
		if err := writer.Write(f.toRow(rec)); err != nil {
			return fmt.Errorf("write row %s: %w", rec.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func decodeXLSX(f Format, r io.Reader) (*Decoded, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.NewValidationError("file", "not a spreadsheet")
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.NewValidationError("header", "workbook has no sheets")
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, domain.NewValidationError("header", "file is missing headers")
	}

	width := len(f.Header())
	// Trailing empty cells are omitted by the reader.
	if err := f.matchHeader(pad(rows[0], width)); err != nil {
		return nil, err
	}

	out := &Decoded{}
	for _, row := range rows[1:] {
		if len(row) > width {
			row = row[:width]
		}
		out.add(f.fromRow(pad(row, width)))
	}
	return out, nil
}

func encodeXLSX(f Format, w io.Writer, recs []domain.Record) error {
	book := excelize.NewFile()
	defer book.Close()

	sheet := f.SheetName()
	if err := book.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := f.Header()
	if err := book.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := book.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, rec := range recs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		row := f.toRow(rec)
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %s: %w", rec.ID, err)
		}
	}

	if err := book.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// add keeps rec only if it carries a term.
func (d *Decoded) add(rec domain.Record) {
	if !rec.HasTerm() {
		d.Skipped++
		return
	}
	d.Records = append(d.Records, rec)
}

func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

// IsHeaderError reports whether err is an import header mismatch.
func IsHeaderError(err error) bool {
	var verr *domain.ValidationError
	return errors.As(err, &verr) && verr.HasField("header")
}
