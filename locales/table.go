package locales

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/text/language"
)

// Language is a two character header value and the column it was found in.
type Language struct {
	Code   string
	Column int
}

// Languages returns the language columns of a header row.
// The first column holds translation keys and is never a language.
// A header cell counts as a language iff it is exactly two characters long;
// values are not trimmed or case folded. Duplicates are kept in order.
// If check is set, codes unknown to x/text/language are dropped as well.
func Languages(header []string, check bool) []Language {
	var langs []Language
	for col := 1; col < len(header); col++ {
		v := header[col]
		// Code points, not UTF-16 units: one astral character is not a code.
		if utf8.RuneCountInString(v) != 2 {
			continue
		}
		if check && !knownBase(v) {
			continue
		}
		langs = append(langs, Language{Code: v, Column: col})
	}
	return langs
}

func knownBase(code string) bool {
	_, err := language.ParseBase(code)
	return err == nil
}

// Translations maps row keys to values in sheet order.
type Translations = orderedmap.OrderedMap[string, string]

// Table maps a language code to its translations.
type Table map[string]*Translations

// BuildTable collects the translations of every data row for each language.
// rows excludes the header. Entirely blank rows are skipped.
// A missing cell is stored as "" against the row key.
func BuildTable(rows [][]string, langs []Language) Table {
	t := make(Table, len(langs))
	for _, l := range langs {
		if _, ok := t[l.Code]; !ok {
			t[l.Code] = orderedmap.New[string, string]()
		}
	}
	for _, row := range rows {
		if blank(row) {
			continue
		}
		key := cell(row, 0)
		for _, l := range langs {
			t[l.Code].Set(key, cell(row, l.Column))
		}
	}
	return t
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blank(record []string) bool {
	for _, s := range record {
		if s != "" {
			return false
		}
	}
	return true
}

const indent = "    "

// EncodeLocale renders translations as a JSON object indented by four
// spaces, keeping key order. An empty map is written as {}.
func EncodeLocale(tr *Translations) ([]byte, error) {
	var buf bytes.Buffer
	if tr == nil || tr.Len() == 0 {
		buf.WriteString("{}")
		return buf.Bytes(), nil
	}
	buf.WriteString("{\n")
	for pair := tr.Oldest(); pair != nil; pair = pair.Next() {
		buf.WriteString(indent)
		if err := writeString(&buf, pair.Key); err != nil {
			return nil, err
		}
		buf.WriteString(": ")
		if err := writeString(&buf, pair.Value); err != nil {
			return nil, err
		}
		if pair.Next() != nil {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var sb bytes.Buffer
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(sb.Bytes(), []byte("\n")))
	return nil
}
