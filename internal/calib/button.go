package calib

// Button identifies one logical control on a SNES-style pad. The numeric
// order is the calibration order and the order downstream consumers rely on.
type Button int

const (
	DPadUp Button = iota
	DPadDown
	DPadLeft
	DPadRight
	ButtonA
	ButtonB
	ButtonX
	ButtonY
	ButtonStart
	ButtonSelect
	ButtonL
	ButtonR

	buttonCount
)

var buttonKeys = [buttonCount]string{
	DPadUp:       "dpad_up",
	DPadDown:     "dpad_down",
	DPadLeft:     "dpad_left",
	DPadRight:    "dpad_right",
	ButtonA:      "btn_a",
	ButtonB:      "btn_b",
	ButtonX:      "btn_x",
	ButtonY:      "btn_y",
	ButtonStart:  "btn_start",
	ButtonSelect: "btn_select",
	ButtonL:      "btn_l",
	ButtonR:      "btn_r",
}

var buttonLabels = [buttonCount]string{
	DPadUp:       "D-PAD UP",
	DPadDown:     "D-PAD DOWN",
	DPadLeft:     "D-PAD LEFT",
	DPadRight:    "D-PAD RIGHT",
	ButtonA:      "A BUTTON",
	ButtonB:      "B BUTTON",
	ButtonX:      "X BUTTON",
	ButtonY:      "Y BUTTON",
	ButtonStart:  "START",
	ButtonSelect: "SELECT",
	ButtonL:      "L SHOULDER",
	ButtonR:      "R SHOULDER",
}

// Buttons returns every logical button in calibration order.
func Buttons() []Button {
	out := make([]Button, buttonCount)
	for i := range out {
		out[i] = Button(i)
	}
	return out
}

// Key returns the stable identifier used in persisted mapping files.
func (b Button) Key() string {
	if b < 0 || b >= buttonCount {
		return "unknown"
	}
	return buttonKeys[b]
}

// Display returns the operator-facing prompt label.
func (b Button) Display() string {
	if b < 0 || b >= buttonCount {
		return "UNKNOWN"
	}
	return buttonLabels[b]
}

func (b Button) String() string { return b.Key() }
