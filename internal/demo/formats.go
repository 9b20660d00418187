package demo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/srg/cut/pkg/cut"
)

type reading struct {
	Sensor string    `json:"sensor"`
	Unit   string    `json:"unit"`
	Values []float64 `json:"values"`
}

func renderTable(rows [][2]string) string {
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%-8s %s  \n", row[0], row[1])
	}
	return b.String()
}

func installFormats(in *installer, opts Options) {
	in.add("text", func(s *cut.Session) cut.Result {
		rows := [][2]string{{"alpha", "1"}, {"beta", "2"}, {"gamma", "3"}}
		if opts.ForceFailure {
			rows[1][1] = "20"
		}
		proper := "alpha    1\nbeta     2\n\ngamma    3\n"
		s.AssertText(proper, renderTable(rows), cut.IgnoreTrailingWhitespace(true), cut.IgnoreEmptyLines(true))
		return s.Pass()
	})

	in.add("json", func(s *cut.Session) cut.Result {
		r := reading{Sensor: "t1", Unit: "C", Values: []float64{20.5, 21}}
		if opts.ForceFailure {
			r.Unit = "F"
		}
		actual, err := json.Marshal(r)
		s.Assertf(err == nil, "marshal reading: %v", err)
		s.AssertJSON([]byte(`{"values": [20.5, 21], "unit": "C", "sensor": "t1"}`), actual)
		return s.Pass()
	})
}
