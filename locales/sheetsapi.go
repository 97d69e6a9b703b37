package locales

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type sheetsAPISource struct {
	service *sheets.Service
}

func newSheetsAPISource(ctx context.Context, keypath string) (*sheetsAPISource, error) {
	return dialSheetsAPI(ctx,
		option.WithCredentialsFile(keypath),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope))
}

func dialSheetsAPI(ctx context.Context, opts ...option.ClientOption) (*sheetsAPISource, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("building sheets service: %w", err)
	}
	return &sheetsAPISource{service}, nil
}

func (src *sheetsAPISource) Worksheet(ctx context.Context, spreadsheetID, title string) (*Worksheet, error) {
	doc, err := src.service.Spreadsheets.
		Get(spreadsheetID).
		Fields("properties.title", "sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("fetching spreadsheet: %w", err)
	}
	props := findSheet(doc.Sheets, title)
	if props == nil {
		docTitle := ""
		if doc.Properties != nil {
			docTitle = doc.Properties.Title
		}
		return nil, fmt.Errorf("%w: %q in %q", ErrWorksheetNotFound, title, docTitle)
	}

	vr, err := src.service.Spreadsheets.Values.
		Get(spreadsheetID, quoteTitle(props.Title)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("fetching rows of %q: %w", props.Title, err)
	}
	return &Worksheet{
		ID:    props.SheetId,
		Title: props.Title,
		Rows:  stringValues(vr.Values),
	}, nil
}

func findSheet(list []*sheets.Sheet, title string) *sheets.SheetProperties {
	for _, s := range list {
		if s != nil && s.Properties != nil && s.Properties.Title == title {
			return s.Properties
		}
	}
	return nil
}

// quoteTitle turns a sheet title into an A1 range covering the whole sheet.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func stringValues(values [][]interface{}) [][]string {
	out := make([][]string, 0, len(values))
	for _, row := range values {
		record := make([]string, 0, len(row))
		for _, v := range row {
			switch v := v.(type) {
			case nil:
				record = append(record, "")
			case string:
				record = append(record, v)
			default:
				record = append(record, fmt.Sprint(v))
			}
		}
		out = append(out, record)
	}
	return out
}
