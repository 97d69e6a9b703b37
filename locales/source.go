package locales

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Worksheet is one tab of a spreadsheet. Rows holds the cell values with
// the header row first. Rows may be ragged.
type Worksheet struct {
	ID    int64
	Title string
	Rows  [][]string
}

// Header returns the first row, if any.
func (ws *Worksheet) Header() []string {
	if len(ws.Rows) == 0 {
		return nil
	}
	return ws.Rows[0]
}

// Data returns every row after the header.
func (ws *Worksheet) Data() [][]string {
	if len(ws.Rows) < 2 {
		return nil
	}
	return ws.Rows[1:]
}

// Source fetches worksheets by spreadsheet ID and exact title.
type Source interface {
	Worksheet(ctx context.Context, spreadsheetID, title string) (*Worksheet, error)
}

var ErrWorksheetNotFound = errors.New("worksheet not found")

const (
	BackendIwark     = "iwark"
	BackendSheetsAPI = "sheetsapi"
)

// OpenSource authenticates with the service account key at keyfile
// and returns a Source for the named backend.
func OpenSource(ctx context.Context, backend, keyfile string) (Source, error) {
	keypath, err := resolveKeyfile(keyfile)
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendIwark, "":
		return newIwarkSource(ctx, keypath)
	case BackendSheetsAPI:
		return newSheetsAPISource(ctx, keypath)
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

// resolveKeyfile makes a relative keyfile path relative to the working directory.
func resolveKeyfile(keyfile string) (string, error) {
	if filepath.IsAbs(keyfile) {
		return keyfile, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("could not get working directory: %w", err)
	}
	return filepath.Join(wd, keyfile), nil
}
