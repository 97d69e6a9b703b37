package locales

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/carlmjohnson/flagext"
	"github.com/henvic/ctxsignal"
)

const AppName = "sheets-to-locales"

func CLI(args []string) error {
	var conf Config
	if err := conf.FromArgs(args); err != nil {
		return err
	}
	if err := conf.Exec(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func (conf *Config) FromArgs(args []string) error {
	fl := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fl.StringVar(&conf.Keyfile, "keyfile", "", "`path` to a Google service account key, relative to the working directory")
	fl.StringVar(&conf.SpreadsheetID, "spreadsheetId", "", "Google Sheet ID")
	fl.StringVar(&conf.WorksheetTitle, "worksheetTitle", "", "`title` of the worksheet holding translations")
	fl.StringVar(&conf.Dest, "dest", "", "destination `directory`, removed and recreated on every run")
	fl.StringVar(&conf.Backend, "backend", BackendIwark,
		"Google Sheets client: "+BackendIwark+" or "+BackendSheetsAPI)
	fl.StringVar(&conf.BucketURL, "bucket-url", "",
		"`URL` for destination bucket; -dest becomes a prefix in it (default local filesystem)")
	fl.StringVar(&conf.CacheControl, "cache-control", "max-age=900,public",
		"`value` for Cache-Control header of bucket writes")
	fl.BoolVar(&conf.CheckLang, "check-lang", false, "skip two letter headers that are not known language codes")

	quiet := fl.Bool("quiet", false, "don't log activity")
	fl.Usage = func() {
		fmt.Fprintf(os.Stderr,
			`sheets-to-locales converts a Google Sheets worksheet of translations into locale-<lang>.json files.

Row 1 holds the language codes from column 2 onward; only two character values count. Column 1 of every other row is the translation key.

Usage of sheets-to-locales:

`,
		)
		fl.PrintDefaults()
	}
	if err := fl.Parse(args); err != nil {
		return err
	}

	if err := flagext.ParseEnv(fl, AppName); err != nil {
		return err
	}

	if *quiet {
		conf.Logger = log.New(io.Discard, "", 0)
	} else {
		conf.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	conf.ErrLogger = log.New(os.Stderr, "", log.LstdFlags)

	return nil
}

var (
	ErrNoKeyfile   = errors.New("no keyfile provided")
	ErrNoSheet     = errors.New("no spreadsheet ID provided")
	ErrNoWorksheet = errors.New("no worksheet title provided")
	ErrNoDest      = errors.New("no destination provided")
)

type Config struct {
	Keyfile        string
	SpreadsheetID  string
	WorksheetTitle string
	Dest           string
	Backend        string
	BucketURL      string
	CacheControl   string
	CheckLang      bool
	Logger         *log.Logger
	ErrLogger      *log.Logger

	// Source and Sink are opened from the fields above when nil.
	// Caller supplied values are not closed.
	Source Source
	Sink   Sink
}

func (c *Config) validate() error {
	switch {
	case c.Keyfile == "" && c.Source == nil:
		return ErrNoKeyfile
	case c.SpreadsheetID == "":
		return ErrNoSheet
	case c.WorksheetTitle == "":
		return ErrNoWorksheet
	case strings.TrimSpace(c.Dest) == "" && c.Sink == nil:
		return ErrNoDest
	}
	return nil
}

func (c *Config) Exec() error {
	ctx, cancel := ctxsignal.WithTermination(context.Background())
	defer cancel()

	return c.Run(ctx)
}

// Run cleans the destination, fetches the worksheet and writes one locale
// file per language found in its header.
func (c *Config) Run(ctx context.Context) (err error) {
	if err = c.validate(); err != nil {
		return err
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	if c.ErrLogger == nil {
		c.ErrLogger = log.New(os.Stderr, "", log.LstdFlags)
	}

	sink := c.Sink
	if sink == nil {
		if sink, err = c.openSink(ctx); err != nil {
			return err
		}
		defer deferClose(&err, sink.Close)
	}

	c.Logger.Printf("cleaning %q", c.Dest)
	if err = sink.Clean(ctx); err != nil {
		return err
	}

	src := c.Source
	if src == nil {
		c.Logger.Printf("connecting to Google Sheets for %q", c.SpreadsheetID)
		if src, err = OpenSource(ctx, c.Backend, c.Keyfile); err != nil {
			return err
		}
	}

	ws, err := src.Worksheet(ctx, c.SpreadsheetID, c.WorksheetTitle)
	if err != nil {
		return err
	}
	c.Logger.Printf("got %q with %d rows", ws.Title, len(ws.Rows))

	langs := Languages(ws.Header(), c.CheckLang)
	c.Logger.Printf("found languages %v", codes(langs))

	table := BuildTable(ws.Data(), langs)
	return c.emit(ctx, sink, langs, table)
}

func (c *Config) openSink(ctx context.Context) (Sink, error) {
	if c.BucketURL == "" {
		return NewDirSink(c.Dest), nil
	}
	return OpenBucketSink(ctx, c.BucketURL, c.Dest, c.CacheControl)
}

// emit writes every language, including those without rows. A failed
// write does not stop the others; all failures are returned together.
func (c *Config) emit(ctx context.Context, sink Sink, langs []Language, table Table) error {
	var errs []error
	for _, code := range codes(langs) {
		data, err := EncodeLocale(table[code])
		if err != nil {
			return fmt.Errorf("could not encode %q: %w", code, err)
		}
		name, err := sink.Write(ctx, code, data)
		if err != nil {
			c.ErrLogger.Printf("something went wrong while writing %q: %v", name, err)
			errs = append(errs, fmt.Errorf("writing %q: %w", name, err))
			continue
		}
		c.Logger.Printf("generated file %q", name)
	}
	return errors.Join(errs...)
}

// codes lists the distinct language codes in header order.
func codes(langs []Language) []string {
	seen := make(map[string]bool, len(langs))
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		if seen[l.Code] {
			continue
		}
		seen[l.Code] = true
		out = append(out, l.Code)
	}
	return out
}

func deferClose(err *error, f func() error) {
	newErr := f()
	if *err == nil && newErr != nil {
		*err = fmt.Errorf("problem closing: %v", newErr)
	}
}
