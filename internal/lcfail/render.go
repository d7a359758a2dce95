package lcfail

import (
	"fmt"
	"strings"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
)

// Render formats scenario (and, where available, the results exec carries)
// as an aligned, thread-major column table: one column per phase/thread
// (init, each parallel thread in order, post), one row per actor position,
// cells left-aligned and padded on the right to the column's widest entry.
func Render(scenario lcactor.Scenario, exec lcactor.ExecutionResult) string {
	headers, columns := renderColumns(scenario, exec)
	return renderTable(headers, columns)
}

// RenderScenario renders just the actor calls, with no result column — used
// by the minimizer's before/after diff, where only the scenario's shape
// (not any particular run's results) is meaningful.
func RenderScenario(scenario lcactor.Scenario) string {
	headers, columns := renderColumns(scenario, lcactor.ExecutionResult{})
	return renderTable(headers, columns)
}

func renderColumns(s lcactor.Scenario, exec lcactor.ExecutionResult) ([]string, [][]string) {
	var headers []string
	var columns [][]string

	if len(s.Init) > 0 {
		headers = append(headers, "init")
		columns = append(columns, formatPlain(s.Init, exec.InitResults))
	}
	for i, actors := range s.Parallel {
		headers = append(headers, fmt.Sprintf("thread %d", i+1))
		var results []lcactor.Result
		if i < len(exec.ParallelResults) {
			results = make([]lcactor.Result, len(exec.ParallelResults[i]))
			for j, r := range exec.ParallelResults[i] {
				results[j] = r.Result
			}
		}
		columns = append(columns, formatPlain(actors, results))
	}
	if len(s.Post) > 0 {
		headers = append(headers, "post")
		columns = append(columns, formatPlain(s.Post, exec.PostResults))
	}

	return headers, columns
}

func formatPlain(actors []lcactor.Actor, results []lcactor.Result) []string {
	out := make([]string, len(actors))
	for i, a := range actors {
		call := actorString(a)
		if i < len(results) && results[i] != nil {
			out[i] = fmt.Sprintf("%s -> %s", call, resultString(results[i]))
		} else {
			out[i] = call
		}
	}
	return out
}

func actorString(a lcactor.Actor) string {
	args := a.Args()
	if len(args) == 0 {
		return fmt.Sprintf("%s()", a.Method())
	}
	parts := make([]string, len(args))
	for i, v := range args {
		parts[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("%s(%s)", a.Method(), strings.Join(parts, ", "))
}

func resultString(r lcactor.Result) string {
	switch v := r.(type) {
	case lcactor.ValueResult:
		return fmt.Sprint(v.Value)
	case lcactor.ExceptionResult:
		return fmt.Sprintf("!%s", v.Kind)
	case lcactor.VoidResult:
		return "void"
	case lcactor.SuspendedResult:
		return "suspended"
	case lcactor.CancelledResult:
		return "cancelled"
	case lcactor.NoResult:
		return "-"
	default:
		return "?"
	}
}

// renderTable pads every column to its own widest cell (including header)
// and joins rows with " | ", producing a simple fixed-width table.
func renderTable(headers []string, columns [][]string) string {
	if len(columns) == 0 {
		return ""
	}
	widths := make([]int, len(columns))
	rows := 0
	for i, col := range columns {
		widths[i] = len(headers[i])
		for _, cell := range col {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
		if len(col) > rows {
			rows = len(col)
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, w := range widths {
			if i > 0 {
				b.WriteString(" | ")
			}
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			fmt.Fprintf(&b, "%-*s", w, cell)
		}
		b.WriteByte('\n')
	}

	writeRow(headers)
	for r := 0; r < rows; r++ {
		cells := make([]string, len(columns))
		for i, col := range columns {
			if r < len(col) {
				cells[i] = col[r]
			}
		}
		writeRow(cells)
	}
	return b.String()
}
