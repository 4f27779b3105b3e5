package domain

import (
	"fmt"
	"strconv"
)

// Label is the schedule slot kind that decides which synthesis path runs.
type Label string

const (
	LabelSafe Label = "safe"
	LabelBad  Label = "bad"
)

// Verdict is the outcome of a safety evaluation.
//
// Suppressed holds the violations that were found but left out of Reason
// because the UV override short-circuited the evaluation.
type Verdict struct {
	Safe       bool           `json:"safe"`
	Reason     string         `json:"reason"`
	Failed     []ParameterKey `json:"failed,omitempty"`
	Suppressed []string       `json:"suppressed,omitempty"`
}

// Brand is a reference bottled-water profile with inclusive ranges.
type Brand struct {
	Name     string     `json:"name"`
	PHRange  [2]float64 `json:"phRange"`
	TDSRange [2]float64 `json:"tdsRange"`
}

// Matches reports whether ph and tds both fall inside the brand ranges.
func (b Brand) Matches(ph, tds float64) bool {
	return ph >= b.PHRange[0] && ph <= b.PHRange[1] &&
		tds >= b.TDSRange[0] && tds <= b.TDSRange[1]
}

// Label renders the badge text, e.g. "Watercoin (pH 7.3-8.1, TDS 14-35 ppm)".
func (b Brand) Label() string {
	return fmt.Sprintf("%s (pH %s-%s, TDS %s-%s ppm)", b.Name,
		FormatNumber(b.PHRange[0]), FormatNumber(b.PHRange[1]),
		FormatNumber(b.TDSRange[0]), FormatNumber(b.TDSRange[1]))
}

// Reading is one full pipeline output for a device.
type Reading struct {
	Seq      uint64       `json:"seq"`
	Label    Label        `json:"label"`
	Packet   SensorPacket `json:"packet"`
	Verdict  Verdict      `json:"verdict"`
	Headline string       `json:"headline"`
	Brand    *Brand       `json:"brand,omitempty"`

	TransformVer uint16 `json:"transformVer,omitempty"`
}

// FormatNumber renders v in its shortest round-trip form (7.5, 0.07, 600).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
