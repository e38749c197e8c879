package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/wealthsim/internal/domain"
)

// DistributionCSV exports the per-scenario terminal values behind every horizon
type DistributionCSV struct{}

func (c DistributionCSV) Name() string      { return "distribution-csv" }
func (c DistributionCSV) Extension() string { return "csv" }

func (c DistributionCSV) Format(report *domain.SimulationReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Plan", "Years", "Scenario", "NetWealth", "FinalDebt", "DirectLoss", "CompoundingLoss", "MonthsInDebt"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, pr := range report.Plans {
		name := pr.Plan.Label(i)
		for _, h := range pr.Horizons {
			s := h.Samples
			years := strconv.Itoa(h.Years)
			for j := range s.NetWealth {
				row := []string{
					name,
					years,
					strconv.Itoa(j),
					formatFloat(s.NetWealth[j]),
					formatFloat(s.FinalDebt[j]),
					formatFloat(s.DirectLoss[j]),
					formatFloat(s.CompoundingLoss[j]),
					strconv.Itoa(s.MonthsInDebt[j]),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
