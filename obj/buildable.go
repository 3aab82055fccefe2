package obj

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/render"
)

// Buildable is a prop the player can knit up or down while overlapping
// its buildable shape. Both steps are no-ops at the boundary.
type Buildable interface {
	BuildUp()
	BuildDown()
	BuildableShape() *cp.Shape
}

// Interactable is a buildable prop that lives in the scene.
type Interactable interface {
	Buildable
	PlayerCollideCallback()
	Draw(canvas render.Canvas, offset cp.Vector)
}
