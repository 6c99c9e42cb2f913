package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fdtdsim/internal/config"
	"github.com/san-kum/fdtdsim/internal/fdtd"
	"github.com/san-kum/fdtdsim/internal/sim"
)

// ErrNoField indicates a run saved without a final field.
var ErrNoField = errors.New("storage: run has no field data")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Timestamp  time.Time             `json:"timestamp"`
	Grid       fdtd.Shape            `json:"grid"`
	Steps      int                   `json:"steps"`
	StepsTaken int                   `json:"steps_taken"`
	Courant    float64               `json:"courant"`
	Boundary   string                `json:"boundary"`
	Sources    []config.SourceConfig `json:"sources"`
	Materials  []fdtd.Region         `json:"materials,omitempty"`
	Probes     []string              `json:"probes"`
	Metrics    map[string]float64    `json:"metrics"`
}

// ProbeData is the content of probes.csv: one row per step.
type ProbeData struct {
	Steps  []int
	Names  []string
	Series map[string][]float64
	Energy []float64
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// Save writes metadata.json, probes.csv and field.csv into a fresh run
// directory named <name>_<unix seconds>. On error the directory is removed.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	name := cfg.Name
	if name == "" {
		name = "run"
	}
	now := s.now()
	runID := fmt.Sprintf("%s_%d", name, now.Unix())
	for k := 2; ; k++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, runID)); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d_%d", name, now.Unix(), k)
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	probeNames := make([]string, 0, len(result.Probes))
	for n := range result.Probes {
		probeNames = append(probeNames, n)
	}
	sort.Strings(probeNames)

	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  now,
		Grid:       cfg.Grid,
		Steps:      cfg.Steps,
		StepsTaken: result.StepsTaken,
		Courant:    cfg.Courant,
		Boundary:   cfg.Boundary,
		Sources:    cfg.Sources,
		Materials:  cfg.Materials,
		Probes:     probeNames,
		Metrics:    finite(result.Metrics),
	}

	if err := writeRun(runDir, meta, result); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("save %s: %w", runID, err)
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, result *sim.Result) error {
	if err := writeFile(filepath.Join(runDir, "metadata.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(runDir, "probes.csv"), func(w io.Writer) error {
		return writeProbes(w, meta.Probes, result)
	}); err != nil {
		return err
	}
	if result.Final == nil {
		return nil
	}
	return writeFile(filepath.Join(runDir, "field.csv"), func(w io.Writer) error {
		return writeField(w, result.Final)
	})
}

// writeFile creates path and hands it to write. The Close error is reported
// when write succeeds.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// finite drops NaN and Inf metrics, which JSON cannot encode.
func finite(metrics map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(metrics))
	for k, v := range metrics {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func writeProbes(out io.Writer, names []string, result *sim.Result) error {
	w := csv.NewWriter(out)
	header := append([]string{"step"}, names...)
	header = append(header, "energy")
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Energy {
		row := []string{strconv.Itoa(i)}
		for _, n := range names {
			series := result.Probes[n]
			if i < len(series) {
				row = append(row, formatFloat(series[i]))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, formatFloat(result.Energy[i]))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeField(out io.Writer, snap *fdtd.Snapshot) error {
	w := csv.NewWriter(out)
	for j := 0; j < snap.Shape.Rows(); j++ {
		row := snap.Row(j)
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = formatFloat(v)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(a, b int) bool {
		return runs[a].Timestamp.Before(runs[b].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadProbes(runID string) (*ProbeData, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "probes.csv"))
	if err != nil {
		return nil, err
	}

	data := &ProbeData{Series: make(map[string][]float64)}
	if len(records) == 0 {
		return data, nil
	}
	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("run %s: malformed probes header %v", runID, header)
	}
	data.Names = append([]string(nil), header[1:len(header)-1]...)

	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		data.Steps = append(data.Steps, step)
		for k, name := range data.Names {
			v, _ := strconv.ParseFloat(record[k+1], 64)
			data.Series[name] = append(data.Series[name], v)
		}
		e, _ := strconv.ParseFloat(record[len(record)-1], 64)
		data.Energy = append(data.Energy, e)
	}
	return data, nil
}

// LoadField returns the final Ez of a run as rows of cells.
func (s *Store) LoadField(runID string) ([][]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "field.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoField, runID)
		}
		return nil, err
	}

	rows := make([][]float64, 0, len(records))
	for _, record := range records {
		row := make([]float64, len(record))
		for i, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: field: %w", runID, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Dir returns the directory holding a run's files.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
