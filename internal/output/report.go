package output

import (
	"fmt"
	"strings"

	"github.com/rpgo/wealthsim/internal/domain"
)

// FormatAll selects every registered formatter
const FormatAll = "all"

// ResolveFormatters maps requested names (aliases allowed, "all" expands) to formatters,
// dropping duplicates while keeping the requested order.
func ResolveFormatters(names []string) ([]Formatter, error) {
	var out []Formatter
	seen := map[string]bool{}
	add := func(f Formatter) {
		if !seen[f.Name()] {
			seen[f.Name()] = true
			out = append(out, f)
		}
	}
	for _, name := range names {
		if NormalizeFormatName(name) == FormatAll {
			for _, f := range builtInFormatters {
				add(f)
			}
			continue
		}
		f := GetFormatterByName(name)
		if f == nil {
			// enrich error with available formatters and aliases
			return nil, fmt.Errorf("%w: %q. Try one of: %s, %s (aliases: %s)", ErrUnsupportedFormat, name,
				strings.Join(AvailableFormatterNames(), ", "), FormatAll, strings.Join(AvailableFormatAliases(), ", "))
		}
		add(f)
	}
	return out, nil
}

// GenerateReport writes the report in the given format to dir and returns the files written.
func GenerateReport(report *domain.SimulationReport, format, dir string) ([]string, error) {
	formatters, err := ResolveFormatters([]string{format})
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(formatters))
	for _, f := range formatters {
		name, err := WriteFormatted(f, report, dir)
		if err != nil {
			return files, err
		}
		files = append(files, name)
	}
	return files, nil
}
