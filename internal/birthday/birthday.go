package birthday

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
)

// Entry is one person in the birthday file.
type Entry struct {
	Name  string
	Day   int
	Month time.Month
}

// Load parses the pipe-delimited birthday file. Each row is "Name|DD/MM";
// a leading "Name|Date" header row is skipped. A missing file is an empty
// list, not an error.
func Load(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open birthday file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '|'
	reader.FieldsPerRecord = -1

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read birthday file: %w", err)
	}

	var entries []Entry
	for i, line := range lines {
		if len(line) < 2 {
			return nil, fmt.Errorf("birthday row %d has %d columns, want 2", i+1, len(line))
		}
		name := strings.TrimSpace(line[0])
		date := strings.TrimSpace(line[1])
		if i == 0 && strings.EqualFold(name, "Name") && strings.EqualFold(date, "Date") {
			continue
		}
		day, month, err := parseDate(date)
		if err != nil {
			return nil, fmt.Errorf("birthday row %d: %w", i+1, err)
		}
		entries = append(entries, Entry{Name: name, Day: day, Month: month})
	}
	return entries, nil
}

func parseDate(value string) (int, time.Month, error) {
	dayText, monthText, found := strings.Cut(value, "/")
	if !found {
		return 0, 0, fmt.Errorf("date %q is not DD/MM", value)
	}
	day, err := strconv.Atoi(strings.TrimSpace(dayText))
	if err != nil || day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("date %q has invalid day", value)
	}
	month, err := strconv.Atoi(strings.TrimSpace(monthText))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("date %q has invalid month", value)
	}
	return day, time.Month(month), nil
}

// Greetings returns the messages for everyone whose birthday falls on the
// given day.
func Greetings(path string, now time.Time) ([]string, error) {
	entries, err := Load(path)
	if err != nil {
		return nil, err
	}
	var greetings []string
	for _, entry := range entries {
		if entry.Day == now.Day() && entry.Month == now.Month() {
			greetings = append(greetings, fmt.Sprintf("Happy Birthday, %s!", entry.Name))
		}
	}
	return greetings, nil
}
