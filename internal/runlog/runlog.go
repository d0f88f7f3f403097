// Package runlog records one CSV row per parse run under <data>/logs.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the parse log.
type Entry struct {
	Timestamp  time.Time
	AccountID  string
	Outcome    string
	Parsed     int
	New        int
	Duplicates int
	Detected   int
	Message    string
}

// Header is the CSV header for parse-log.csv.
const Header = "timestamp,account_id,outcome,parsed,new,duplicates,detected,message"

const (
	numFields     = 8
	logDir        = "logs"
	logFile       = "logs/parse-log.csv"
	colTimestamp  = 0
	colAccountID  = 1
	colOutcome    = 2
	colParsed     = 3
	colNew        = 4
	colDuplicates = 5
	colDetected   = 6
	colMessage    = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAccountID] = e.AccountID
	row[colOutcome] = e.Outcome
	row[colParsed] = strconv.Itoa(e.Parsed)
	row[colNew] = strconv.Itoa(e.New)
	row[colDuplicates] = strconv.Itoa(e.Duplicates)
	row[colDetected] = strconv.Itoa(e.Detected)
	row[colMessage] = e.Message
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	counts := make([]int, 4)
	for i, col := range []int{colParsed, colNew, colDuplicates, colDetected} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts[i] = n
	}

	return Entry{
		Timestamp:  ts,
		AccountID:  record[colAccountID],
		Outcome:    record[colOutcome],
		Parsed:     counts[0],
		New:        counts[1],
		Duplicates: counts[2],
		Detected:   counts[3],
		Message:    record[colMessage],
	}, nil
}

// Append writes entries to <dataDir>/logs/parse-log.csv, creating the file and header if needed.
func Append(dataDir string, entries []Entry) error {
	dir := filepath.Join(dataDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dataDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening parse log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <dataDir>/logs/parse-log.csv.
// Returns an empty slice if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dataDir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening parse log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading parse log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
