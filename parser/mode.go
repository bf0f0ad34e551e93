package parser

// Mode selects the grammar variant the Parser accepts (spec §4.1). Baseline
// is the device dialect's historical grammar; Superset additionally accepts
// namespaces, classes, "new" expressions, and imports.
type Mode int

const (
	Baseline Mode = iota
	Superset
)

func (m Mode) String() string {
	if m == Superset {
		return "superset"
	}
	return "baseline"
}
