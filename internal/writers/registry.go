package writers

import (
	"fmt"

	"grnexport/internal/model"
	"grnexport/internal/output"
)

// Renderer derives one export table from the model.
type Renderer func(m *model.Model) (output.Table, error)

// Renderers maps export kind → renderer. Populated in init() by the per-kind files.
var Renderers = map[string]Renderer{}

// Register installs fn for kind (idempotent last-wins).
func Register(kind string, fn Renderer) { Renderers[kind] = fn }

// Render dispatches to the renderer registered for kind.
func Render(kind string, m *model.Model) (output.Table, error) {
	fn, ok := Renderers[kind]
	if !ok {
		return output.Table{}, fmt.Errorf("unknown export kind %q (no renderer registered)", kind)
	}
	return fn(m)
}
