//go:build windows

package wininput

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unsafe"

	"github.com/lxn/win"
)

// mouseeventfHWheel is MOUSEEVENTF_HWHEEL.
const mouseeventfHWheel = 0x01000

// virtualKeys maps special key names to virtual key codes.
var virtualKeys = map[string]uint16{
	"<backspace>": win.VK_BACK,
	"<tab>":       win.VK_TAB,
	"<enter>":     win.VK_RETURN,
	"<shift>":     win.VK_SHIFT,
	"<shift_l>":   win.VK_LSHIFT,
	"<shift_r>":   win.VK_RSHIFT,
	"<ctrl>":      win.VK_CONTROL,
	"<alt>":       win.VK_MENU,
	"<alt_gr>":    win.VK_RMENU,
	"<caps_lock>": win.VK_CAPITAL,
	"<esc>":       win.VK_ESCAPE,
	"<space>":     win.VK_SPACE,
	"<page_up>":   win.VK_PRIOR,
	"<page_down>": win.VK_NEXT,
	"<end>":       win.VK_END,
	"<home>":      win.VK_HOME,
	"<left>":      win.VK_LEFT,
	"<up>":        win.VK_UP,
	"<right>":     win.VK_RIGHT,
	"<down>":      win.VK_DOWN,
	"<delete>":    win.VK_DELETE,
	"<cmd>":       win.VK_LWIN,
}

// WinInjector injects mouse and keyboard input using WinAPI.
type WinInjector struct{}

// NewInjector returns a Windows input injector.
func NewInjector() (Injector, error) {
	return &WinInjector{}, nil
}

// MoveRel moves the cursor by a relative amount.
func (w *WinInjector) MoveRel(dx, dy int) error {
	return sendMouseInput(win.MOUSEEVENTF_MOVE, int32(dx), int32(dy), 0)
}

// ButtonDown presses a mouse button.
func (w *WinInjector) ButtonDown(b Button) error {
	switch b {
	case ButtonRight:
		return sendMouseInput(win.MOUSEEVENTF_RIGHTDOWN, 0, 0, 0)
	case ButtonMiddle:
		return sendMouseInput(win.MOUSEEVENTF_MIDDLEDOWN, 0, 0, 0)
	default:
		return sendMouseInput(win.MOUSEEVENTF_LEFTDOWN, 0, 0, 0)
	}
}

// ButtonUp releases a mouse button.
func (w *WinInjector) ButtonUp(b Button) error {
	switch b {
	case ButtonRight:
		return sendMouseInput(win.MOUSEEVENTF_RIGHTUP, 0, 0, 0)
	case ButtonMiddle:
		return sendMouseInput(win.MOUSEEVENTF_MIDDLEUP, 0, 0, 0)
	default:
		return sendMouseInput(win.MOUSEEVENTF_LEFTUP, 0, 0, 0)
	}
}

// Wheel scrolls vertically by the provided delta.
func (w *WinInjector) Wheel(delta int) error {
	return sendMouseInput(win.MOUSEEVENTF_WHEEL, 0, 0, uint32(int32(delta)))
}

// HWheel scrolls horizontally by the provided delta.
func (w *WinInjector) HWheel(delta int) error {
	return sendMouseInput(mouseeventfHWheel, 0, 0, uint32(int32(delta)))
}

// SpecialKey presses or releases a named key.
func (w *WinInjector) SpecialKey(name string, press bool) error {
	vk, ok := virtualKeys[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	key := win.KEYBDINPUT{WVk: vk}
	if !press {
		key.DwFlags = win.KEYEVENTF_KEYUP
	}
	return sendKeyboardInput(key)
}

// Unicode presses or releases the key producing r.
func (w *WinInjector) Unicode(r rune, press bool) error {
	flags := uint32(win.KEYEVENTF_UNICODE)
	if !press {
		flags |= win.KEYEVENTF_KEYUP
	}
	for _, code := range utf16.Encode([]rune{r}) {
		if err := sendKeyboardInput(win.KEYBDINPUT{WScan: code, DwFlags: flags}); err != nil {
			return err
		}
	}
	return nil
}

// sendMouseInput dispatches a single mouse input event.
func sendMouseInput(flags uint32, dx, dy int32, data uint32) error {
	input := win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			Dx:        dx,
			Dy:        dy,
			MouseData: data,
			DwFlags:   flags,
		},
	}
	if win.SendInput(1, unsafe.Pointer(&input), int32(unsafe.Sizeof(input))) != 1 {
		return fmt.Errorf("SendInput mouse failed: %d", win.GetLastError())
	}
	return nil
}

// sendKeyboardInput dispatches a single keyboard input event. MOUSE_INPUT
// has the size of the INPUT union, so it carries the keyboard payload.
func sendKeyboardInput(key win.KEYBDINPUT) error {
	var input win.MOUSE_INPUT
	input.Type = win.INPUT_KEYBOARD
	*(*win.KEYBDINPUT)(unsafe.Pointer(&input.Mi)) = key
	if win.SendInput(1, unsafe.Pointer(&input), int32(unsafe.Sizeof(input))) != 1 {
		return fmt.Errorf("SendInput keyboard failed: %d", win.GetLastError())
	}
	return nil
}
