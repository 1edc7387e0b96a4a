package input

// Action is a viewer command produced from terminal input.
type Action interface{}

// ScrollLinesAction moves the viewport by Delta rows.
type ScrollLinesAction struct {
	Delta int
}

// ScrollPagesAction moves the viewport by Delta screens.
type ScrollPagesAction struct {
	Delta int
}

// ScrollHomeAction jumps to the first row.
type ScrollHomeAction struct{}

// ScrollEndAction jumps to the last known row.
type ScrollEndAction struct{}

// ScrollColumnsAction shifts line text horizontally by Delta cells.
type ScrollColumnsAction struct {
	Delta int
}

// ResizeAction reports a new terminal size.
type ResizeAction struct {
	Width  int
	Height int
}

// QuitAction exits the viewer.
type QuitAction struct{}

// SuspendAction stops the process and returns to the shell (Ctrl+Z).
type SuspendAction struct{}
