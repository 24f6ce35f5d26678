package tier

import _ "embed"

//go:embed benchmarks.json
var defaultBenchmarks []byte

// Default returns the table built from the embedded benchmark data.
func Default() *Table {
	t, err := parse(defaultBenchmarks)
	if err != nil {
		// The embedded file is validated by tests; an unparseable build is a bug.
		panic("tier: embedded benchmarks.json invalid: " + err.Error())
	}
	return t
}
