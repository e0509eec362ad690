package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Formatter renders a report into bytes.
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string                          { return f.ID }
func (f FormatterFunc) Format(report *Report) ([]byte, error) { return f.F(report) }

var builtInFormatters = map[string]Formatter{
	"console":      ConsoleVerboseFormatter{},
	"console-lite": ConsoleFormatter{},
	"csv":          CSVFormatter{},
	"json":         JSONFormatter{},
	"html":         HTMLFormatter{},
}

var formatAliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"table":           "console",
	"summary":         "console-lite",
	"lite":            "console-lite",
	"detailed-csv":    "csv",
}

// NormalizeFormatName lower-cases name and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := formatAliases[n]; ok {
		return alias
	}
	return n
}

// GetFormatterByName returns the formatter registered under name (or an
// alias of it), or nil.
func GetFormatterByName(name string) Formatter {
	return builtInFormatters[NormalizeFormatName(name)]
}

// AvailableFormatterNames lists registered formatter names, sorted.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for n := range builtInFormatters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists accepted aliases, sorted.
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for a := range formatAliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

// WriteFormatted renders report with f and writes it to a timestamped file
// in the working directory, returning the file name.
func WriteFormatted(f Formatter, report *Report, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("drawdown_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
