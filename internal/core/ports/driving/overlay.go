package driving

import (
	"context"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// OverlayService maps live annotations to viewport-relative screen
// rectangles and hit-tests pointer positions against them.
type OverlayService interface {
	// SetVisible shows or hides the overlay. Showing with a non-empty
	// annotation set activates positioning; hiding cancels it.
	SetVisible(visible bool)

	// Active reports whether the positioning loop is running.
	Active() bool

	// Start runs the positioning loop on a periodic tick until the
	// context is cancelled or the overlay deactivates.
	Start(ctx context.Context)

	// Stop cancels the positioning loop immediately.
	Stop()

	// Tick performs one positioning pass. Exposed so hosts without a
	// timer (and tests) can drive the loop explicitly.
	Tick()

	// Anchors returns the anchors computed by the latest tick.
	// Annotations whose text could not be located are absent.
	Anchors() []domain.OverlayAnchor

	// Hover hit-tests a viewport-relative pointer position and
	// returns the active annotation id, if any. The first anchor
	// whose hover rectangle contains the point wins.
	Hover(x, y float64) (string, bool)
}
