// Package interact implements the pointer gestures of a topology: clicks,
// context menus, node dragging and the two-step "draw a link" gesture.
//
// The [Controller] is a small state machine. Its state is either normal or
// drawing; the drawing state carries the pending link's source id, its style
// overrides and the temporary dashed line shown under the pointer, so none of
// that exists outside the gesture.
//
// Hosts that already know what was hit call the high-level entry points
// ([Controller.ClickNode], [Controller.DragStart], ...). Hosts that only have
// raw pointer input call [Controller.PointerDown], [Controller.PointerMove]
// and [Controller.PointerUp], which hit-test through the [Engine] and
// translate press, move and release sequences into the same gestures.
package interact
