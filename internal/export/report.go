package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/pendulab/internal/physics"
)

// DivergenceReport is the result of a butterfly run.
type DivergenceReport struct {
	Integrator string         `json:"integrator"`
	Params     physics.Params `json:"params"`
	A1Deg      float64        `json:"a1_deg"`
	A2Deg      float64        `json:"a2_deg"`
	Delta      float64        `json:"delta_rad"`
	Steps      int            `json:"steps"`
	Threshold  float64        `json:"threshold_px"`
	Crossing   int            `json:"crossing_step"`
	Lyapunov   float64        `json:"lyapunov_per_frame"`
	Distances  []float64      `json:"distances_px"`
}

func WriteJSON(w io.Writer, r *DivergenceReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes one row per step: step, distance.
func WriteCSV(w io.Writer, r *DivergenceReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "distance_px"}); err != nil {
		return err
	}
	for i, d := range r.Distances {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(d, 'g', -1, 64)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReportFile picks the format from the extension: .csv or JSON.
func WriteReportFile(path string, r *DivergenceReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	write := WriteJSON
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		write = WriteCSV
	}
	if err := write(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
