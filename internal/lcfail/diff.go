package lcfail

import (
	"fmt"

	diff "github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"

	"github.com/joeycumines/go-lincheck/internal/lcactor"
)

// Diff renders a unified diff between the original and minimized scenario's
// tables (component L), so a user can see at a glance which actors the
// minimizer discarded.
func Diff(original, minimized lcactor.Scenario) string {
	before := RenderScenario(original)
	after := RenderScenario(minimized)
	edits := myers.ComputeEdits(``, before, after)
	return fmt.Sprint(diff.ToUnified(`original`, `minimized`, before, edits))
}
