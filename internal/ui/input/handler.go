package input

import (
	"github.com/gdamore/tcell/v2"
)

const (
	wheelStep  = 3
	columnStep = 8
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan Action
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// ProcessEvent converts a tcell event into an Action. It returns false
// once the user asked to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- ResizeAction{Width: w, Height: h}
		return true
	case *tcell.EventMouse:
		ih.processMouseEvent(ev)
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		ih.actionChan <- QuitAction{}
		return false
	case tcell.KeyCtrlZ:
		ih.actionChan <- SuspendAction{}
	case tcell.KeyUp:
		ih.actionChan <- ScrollLinesAction{Delta: -1}
	case tcell.KeyDown, tcell.KeyEnter:
		ih.actionChan <- ScrollLinesAction{Delta: 1}
	case tcell.KeyPgUp, tcell.KeyCtrlB:
		ih.actionChan <- ScrollPagesAction{Delta: -1}
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		ih.actionChan <- ScrollPagesAction{Delta: 1}
	case tcell.KeyHome:
		ih.actionChan <- ScrollHomeAction{}
	case tcell.KeyEnd:
		ih.actionChan <- ScrollEndAction{}
	case tcell.KeyLeft:
		ih.actionChan <- ScrollColumnsAction{Delta: -columnStep}
	case tcell.KeyRight:
		ih.actionChan <- ScrollColumnsAction{Delta: columnStep}
	case tcell.KeyRune:
		return ih.processRune(ev.Rune())
	}
	return true
}

func (ih *InputHandler) processRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		ih.actionChan <- QuitAction{}
		return false
	case 'k':
		ih.actionChan <- ScrollLinesAction{Delta: -1}
	case 'j':
		ih.actionChan <- ScrollLinesAction{Delta: 1}
	case 'b':
		ih.actionChan <- ScrollPagesAction{Delta: -1}
	case ' ', 'f':
		ih.actionChan <- ScrollPagesAction{Delta: 1}
	case 'g':
		ih.actionChan <- ScrollHomeAction{}
	case 'G':
		ih.actionChan <- ScrollEndAction{}
	case 'h':
		ih.actionChan <- ScrollColumnsAction{Delta: -columnStep}
	case 'l':
		ih.actionChan <- ScrollColumnsAction{Delta: columnStep}
	}
	return true
}

func (ih *InputHandler) processMouseEvent(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		ih.actionChan <- ScrollLinesAction{Delta: -wheelStep}
	case buttons&tcell.WheelDown != 0:
		ih.actionChan <- ScrollLinesAction{Delta: wheelStep}
	case buttons&tcell.WheelLeft != 0:
		ih.actionChan <- ScrollColumnsAction{Delta: -columnStep}
	case buttons&tcell.WheelRight != 0:
		ih.actionChan <- ScrollColumnsAction{Delta: columnStep}
	}
}
