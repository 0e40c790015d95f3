package impex

import (
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// Layout is a fixed column schema shared by the CSV and spreadsheet encodings.
type Layout string

// Supported layouts.
const (
	LayoutBasic    Layout = "basic"
	LayoutMatecat  Layout = "matecat"
	LayoutSmartcat Layout = "smartcat"
)

// Encoding is the file encoding of an interchange format.
type Encoding string

// Supported encodings.
const (
	EncodingCSV  Encoding = "csv"
	EncodingXLSX Encoding = "xlsx"
)

// Format is one named interchange format, e.g. matecat-xlsx.
type Format struct {
	Layout   Layout
	Encoding Encoding
}

// Formats lists every supported format.
var Formats = []Format{
	{LayoutBasic, EncodingCSV},
	{LayoutBasic, EncodingXLSX},
	{LayoutMatecat, EncodingCSV},
	{LayoutMatecat, EncodingXLSX},
	{LayoutSmartcat, EncodingCSV},
	{LayoutSmartcat, EncodingXLSX},
}

// ParseFormat parses "<layout>-<encoding>", e.g. "basic-csv" or "smartcat-xlsx".
// "excel" is accepted as an alias for xlsx.
func ParseFormat(s string) (Format, error) {
	layout, enc, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "-")
	if !ok {
		return Format{}, domain.NewValidationError("format", fmt.Sprintf("unknown format %q", s))
	}
	if enc == "excel" {
		enc = string(EncodingXLSX)
	}

	f := Format{Layout: Layout(layout), Encoding: Encoding(enc)}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return Format{}, domain.NewValidationError("format", fmt.Sprintf("unknown format %q", s))
}

func (f Format) String() string {
	return string(f.Layout) + "-" + string(f.Encoding)
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	return string(f.Encoding)
}

// ContentType returns the MIME type of exported files.
func (f Format) ContentType() string {
	if f.Encoding == EncodingXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Header returns the expected header row.
func (f Format) Header() []string {
	switch f.Layout {
	case LayoutMatecat:
		return []string{"Forbidden", "Domain", "Subdomain", "Definition", "en-US", "Notes", "ExampleOfUse", "tr-TR"}
	case LayoutSmartcat:
		return []string{"Example", "Do not translate", "CreationDate", "Author", "LastModifiedDate", "LastModifiedBy", "en Term1", "tr Term1"}
	default:
		if f.Encoding == EncodingXLSX {
			return []string{"Source Term", "Target Term", "Definition"}
		}
		return []string{"SourceTerm", "TargetTerm", "Definition"}
	}
}

// SheetName returns the worksheet name used on export.
func (f Format) SheetName() string {
	switch f.Layout {
	case LayoutMatecat:
		return "Matecat Export"
	case LayoutSmartcat:
		return "Smartcat Export"
	default:
		return "Dictionary Items"
	}
}

// ExportFileName builds <collection>_<Kind>Export_<yyyyMMdd_HHmmss>.<ext>.
// The basic layout has an empty kind.
func ExportFileName(collection string, f Format, now time.Time) string {
	kind := ""
	switch f.Layout {
	case LayoutMatecat:
		kind = "Matecat"
	case LayoutSmartcat:
		kind = "Smartcat"
	}
	return fmt.Sprintf("%s_%sExport_%s.%s", collection, kind, now.Format("20060102_150405"), f.Extension())
}

// toRow renders a record in the layout's column order.
func (f Format) toRow(rec domain.Record) []string {
	switch f.Layout {
	case LayoutMatecat:
		return []string{
			f.encodeForbidden(rec.Forbidden), rec.Domain, rec.Subdomain, rec.Definition,
			rec.SourceTerm, rec.Notes, rec.ExampleOfUse, rec.TargetTerm,
		}
	case LayoutSmartcat:
		return []string{
			rec.ExampleOfUse, f.encodeForbidden(rec.Forbidden),
			formatTime(rec.CreatedAt), rec.CreatedBy,
			formatTime(rec.ModifiedAt), rec.ModifiedBy,
			rec.SourceTerm, rec.TargetTerm,
		}
	default:
		return []string{rec.SourceTerm, rec.TargetTerm, rec.Definition}
	}
}

// fromRow parses a data row. Audit columns are ignored on import.
func (f Format) fromRow(row []string) domain.Record {
	switch f.Layout {
	case LayoutMatecat:
		return domain.Record{
			Forbidden:    decodeForbidden(row[0]),
			Domain:       row[1],
			Subdomain:    row[2],
			Definition:   row[3],
			SourceTerm:   row[4],
			Notes:        row[5],
			ExampleOfUse: row[6],
			TargetTerm:   row[7],
		}
	case LayoutSmartcat:
		return domain.Record{
			ExampleOfUse: row[0],
			Forbidden:    decodeForbidden(row[1]),
			SourceTerm:   row[6],
			TargetTerm:   row[7],
		}
	default:
		return domain.Record{
			SourceTerm: row[0],
			TargetTerm: row[1],
			Definition: row[2],
		}
	}
}

// matchHeader compares a header row against the expected columns,
// ignoring case and surrounding whitespace.
func (f Format) matchHeader(got []string) error {
	want := f.Header()
	if len(got) > 0 {
		got[0] = strings.TrimPrefix(got[0], "\ufeff")
	}

	ok := len(got) == len(want)
	for i := 0; ok && i < len(want); i++ {
		ok = strings.EqualFold(strings.TrimSpace(got[i]), want[i])
	}
	if !ok {
		return domain.NewValidationError("header", fmt.Sprintf("expected %q", strings.Join(want, ",")))
	}
	return nil
}

func (f Format) encodeForbidden(v bool) string {
	switch {
	case v:
		return "true"
	case f.Encoding == EncodingXLSX:
		return "false"
	default:
		return ""
	}
}

func decodeForbidden(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
