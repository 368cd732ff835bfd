package values

type Config interface {
}

// SearchValues are the fixed query parameters wb.ru wants to see on a
// catalog search besides the query itself.
type SearchValues struct {
	Resultset      string  `yaml:"resultset"`
	Dest           int     `yaml:"dest"`
	Regions        string  `yaml:"regions"`
	RequestsPerSec float64 `yaml:"requests-per-sec"`
	TimeoutSec     int     `yaml:"timeout-sec"`
}

func DefaultSearchValues() SearchValues {
	return SearchValues{
		Resultset:      "catalog",
		Dest:           -1257786,
		Regions:        "80,64,38,4,115,83,33,68,70,69,30,86,75,40,1,66,48,110,31,22,71,114",
		RequestsPerSec: 2,
		TimeoutSec:     30,
	}
}
