package domain

import "fmt"

// ParameterKey identifies one of the 23 regulated drinking-water parameters.
// Declaration order is the evaluation order.
type ParameterKey uint8

const (
	Color ParameterKey = iota
	Odour
	Taste
	Turbidity
	Temperature
	TDS
	PH
	COD
	Hardness
	Sulfate
	Nitrite
	Chloride
	Nitrate
	Cyanide
	Fluoride
	Ammonia
	Aluminum
	Copper
	Iron
	Manganese
	Zinc
	TotalColiform
	EColi

	NumParameters = int(EColi) + 1
)

// Category groups parameters by physical nature.
type Category string

const (
	Physical        Category = "physical"
	Chemical        Category = "chemical"
	Microbiological Category = "microbiological"
)

var parameterNames = [NumParameters]string{
	Color:         "color",
	Odour:         "odour",
	Taste:         "taste",
	Turbidity:     "turbidity",
	Temperature:   "temperature",
	TDS:           "tds",
	PH:            "ph",
	COD:           "cod",
	Hardness:      "hardness",
	Sulfate:       "sulfate",
	Nitrite:       "nitrite",
	Chloride:      "chloride",
	Nitrate:       "nitrate",
	Cyanide:       "cyanide",
	Fluoride:      "fluoride",
	Ammonia:       "ammonia",
	Aluminum:      "aluminum",
	Copper:        "copper",
	Iron:          "iron",
	Manganese:     "manganese",
	Zinc:          "zinc",
	TotalColiform: "total_coliform",
	EColi:         "ecoli",
}

var parameterByName = func() map[string]ParameterKey {
	m := make(map[string]ParameterKey, NumParameters)
	for i, name := range parameterNames {
		m[name] = ParameterKey(i)
	}
	return m
}()

// AllParameters returns every key in evaluation order.
func AllParameters() []ParameterKey {
	out := make([]ParameterKey, NumParameters)
	for i := range out {
		out[i] = ParameterKey(i)
	}
	return out
}

func (k ParameterKey) Valid() bool { return int(k) < NumParameters }

func (k ParameterKey) String() string {
	if !k.Valid() {
		return fmt.Sprintf("parameter(%d)", uint8(k))
	}
	return parameterNames[k]
}

func (k ParameterKey) Category() Category {
	switch {
	case k <= TDS:
		return Physical
	case k <= Zinc:
		return Chemical
	default:
		return Microbiological
	}
}

// ParseParameterKey maps a canonical key name ("ph", "total_coliform") to its key.
func ParseParameterKey(name string) (ParameterKey, error) {
	k, ok := parameterByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown parameter %q", name)
	}
	return k, nil
}

func (k ParameterKey) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid parameter key %d", uint8(k))
	}
	return []byte(parameterNames[k]), nil
}

func (k *ParameterKey) UnmarshalText(b []byte) error {
	parsed, err := ParseParameterKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
