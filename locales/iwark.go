package locales

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	spreadsheet "gopkg.in/Iwark/spreadsheet.v2"
)

type iwarkSource struct {
	service *spreadsheet.Service
}

func newIwarkSource(ctx context.Context, keypath string) (*iwarkSource, error) {
	key, err := os.ReadFile(keypath)
	if err != nil {
		return nil, fmt.Errorf("could not read keyfile: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(key, spreadsheet.Scope)
	if err != nil {
		return nil, fmt.Errorf("could not parse credentials: %w", err)
	}
	client := conf.Client(ctx)
	return &iwarkSource{spreadsheet.NewServiceWithClient(client)}, nil
}

func (src *iwarkSource) Worksheet(ctx context.Context, spreadsheetID, title string) (*Worksheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := src.service.FetchSpreadsheet(spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("failure getting Google Sheet: %w", err)
	}
	s, err := doc.SheetByTitle(title)
	if err != nil {
		return nil, fmt.Errorf("%w: %q in %q", ErrWorksheetNotFound, title, doc.Properties.Title)
	}
	return &Worksheet{
		ID:    int64(s.Properties.ID),
		Title: s.Properties.Title,
		Rows:  cellValues(s.Rows),
	}, nil
}

func cellValues(rows [][]spreadsheet.Cell) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		record := make([]string, 0, len(row))
		for _, cell := range row {
			record = append(record, cell.Value)
		}
		out = append(out, record)
	}
	return out
}
