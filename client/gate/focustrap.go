package gate

// FocusTrap models the modal dialog's keyboard focus containment: while the
// trap is active, Tab and Shift+Tab cycle through the dialog's focusable
// elements only, Escape closes the dialog, and a backdrop click (outside the
// dialog body) closes it too. On close, focus returns to whatever held it
// before the trap activated.
type FocusTrap struct {
	ring    []string
	current int
	active  bool
	prior   string

	onClose func()
}

// NewFocusTrap creates a trap over the dialog's focusable elements in DOM
// order. onClose fires once per close, whatever triggered it.
func NewFocusTrap(focusable []string, onClose func()) *FocusTrap {
	return &FocusTrap{ring: focusable, onClose: onClose}
}

// Activate opens the trap: focus moves to the first element and prior is
// remembered for restoration.
func (t *FocusTrap) Activate(prior string) {
	if t.active || len(t.ring) == 0 {
		return
	}
	t.active = true
	t.prior = prior
	t.current = 0
}

// Active reports whether the trap currently holds focus.
func (t *FocusTrap) Active() bool { return t.active }

// Focused returns the element currently holding focus, or "" when inactive.
func (t *FocusTrap) Focused() string {
	if !t.active {
		return ""
	}
	return t.ring[t.current]
}

// Tab advances focus, wrapping from the last element back to the first.
func (t *FocusTrap) Tab() {
	if !t.active {
		return
	}
	t.current = (t.current + 1) % len(t.ring)
}

// ShiftTab moves focus backward, wrapping from the first element to the last.
func (t *FocusTrap) ShiftTab() {
	if !t.active {
		return
	}
	t.current = (t.current - 1 + len(t.ring)) % len(t.ring)
}

// Escape closes the trap.
func (t *FocusTrap) Escape() string {
	return t.close()
}

// BackdropClick closes the trap only when the click landed outside the
// dialog body.
func (t *FocusTrap) BackdropClick(insideDialog bool) string {
	if insideDialog {
		return ""
	}
	return t.close()
}

// close deactivates the trap and returns the element focus goes back to.
func (t *FocusTrap) close() string {
	if !t.active {
		return ""
	}
	t.active = false
	prior := t.prior
	t.prior = ""
	if t.onClose != nil {
		t.onClose()
	}
	return prior
}
