package output

import (
	"encoding/json"

	"github.com/rpgo/wealthsim/internal/domain"
)

// JSONFormatter serializes the simulation report as pretty-printed JSON.
// Per-scenario samples are left out; the distribution-csv format carries them.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string      { return "json" }
func (j JSONFormatter) Extension() string { return "json" }

func (j JSONFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
