// Package bledata holds the static reference tables used to decorate BLE
// advertising observations: Bluetooth SIG company identifiers, Apple
// Continuity sub-type names, and the known tracker-vendor signatures.
//
// The company table is authored as YAML and loaded via go:embed at package
// init, the same "YAML-sourced static lookup table" shape the teacher's
// internal/bledb generator produces, minus the network-fetching generator
// step (see DESIGN.md for why no generator is warranted here).
package bledata

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed companies.yaml
var companiesYAML []byte

type companyEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

var companyNames map[string]string

func init() {
	var entries []companyEntry
	if err := yaml.Unmarshal(companiesYAML, &entries); err != nil {
		panic(fmt.Sprintf("bledata: malformed companies.yaml: %v", err))
	}
	companyNames = make(map[string]string, len(entries))
	for _, e := range entries {
		companyNames[e.ID] = e.Name
	}
}

// CompanyName looks up the manufacturer name for a 4-hex-digit lowercase
// company identifier. Returns "Unknown" when the identifier is not in the
// table, per spec.md §4.4.
func CompanyName(id string) string {
	if name, ok := companyNames[id]; ok {
		return name
	}
	return "Unknown"
}

// Known company identifiers referenced directly by the tracker classifier
// and the Apple Continuity sub-parser (spec.md §4.4).
const (
	CompanyApple   = "004c"
	CompanyTile    = "0157"
	CompanySamsung = "0075"
	CompanyChipolo = "02e5"
)

// Tracker service UUIDs used by the tracker classifier (spec.md §4.4).
const (
	ServiceUUIDTile          = "fe26"
	ServiceUUIDSamsungSmart1 = "fd5a"
	ServiceUUIDSamsungSmart2 = "fef5"
)
