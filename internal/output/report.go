package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/quantmind-br/flatpakman/internal/domain"
)

// jsonReport is the JSON form of a lint report
type jsonReport struct {
	*domain.Report
	Summary domain.Summary `json:"summary"`
}

// WriteReport prints a lint report. The text form lists every invalid file
// as "<path>: <reason>" and ends with a summary line.
func WriteReport(w io.Writer, report *domain.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonReport{Report: report, Summary: report.Summary()})
	}

	for _, res := range report.Results {
		var err error
		if res.Valid {
			_, err = fmt.Fprintf(w, "%s: ok (%s%s)\n", res.Path, res.Kind, describe(res))
		} else {
			_, err = fmt.Fprintf(w, "%s: %s\n", res.Path, res.Error)
		}
		if err != nil {
			return err
		}
	}

	s := report.Summary()
	_, err := fmt.Fprintf(w, "%d manifests checked: %d valid, %d invalid (%d cached) in %s\n",
		s.Total, s.Valid, s.Invalid, s.Cached, report.Duration.Round(time.Millisecond))
	return err
}

func describe(res domain.LintResult) string {
	if res.ID == "" {
		return ""
	}
	return " " + res.ID
}
