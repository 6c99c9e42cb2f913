package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/fdtdsim/internal/sim"
)

type ExportData struct {
	Run     RunMetadata          `json:"run"`
	Energy  []float64            `json:"energy"`
	Probes  map[string][]float64 `json:"probes"`
	Metrics map[string]float64   `json:"metrics"`
	Field   [][]float64          `json:"field,omitempty"`
}

// NewExport assembles the JSON export of a finished simulation.
func NewExport(meta RunMetadata, result *sim.Result) ExportData {
	data := ExportData{
		Run:     meta,
		Energy:  result.Energy,
		Probes:  result.Probes,
		Metrics: finite(result.Metrics),
	}
	if result.Final != nil {
		rows := result.Final.Shape.Rows()
		data.Field = make([][]float64, rows)
		for j := 0; j < rows; j++ {
			data.Field[j] = result.Final.Row(j)
		}
	}
	return data
}

// ExportRun builds the JSON export of a stored run.
func (s *Store) ExportRun(runID string) (ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return ExportData{}, err
	}
	probes, err := s.LoadProbes(runID)
	if err != nil {
		return ExportData{}, err
	}
	data := ExportData{
		Run:     *meta,
		Energy:  probes.Energy,
		Probes:  probes.Series,
		Metrics: meta.Metrics,
	}
	if field, err := s.LoadField(runID); err == nil {
		data.Field = field
	}
	return data, nil
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}
