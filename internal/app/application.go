package app

import (
	"github.com/gdamore/tcell/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/kk-code-lab/rpeek/internal/preview"
	inputui "github.com/kk-code-lab/rpeek/internal/ui/input"
	renderui "github.com/kk-code-lab/rpeek/internal/ui/render"
)

// Options configure the interactive viewer.
type Options struct {
	TabWidth int
	Logger   hclog.Logger
}

// Application represents the running viewer.
type Application struct {
	screen   tcell.Screen
	session  *preview.Session
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	actionCh chan inputui.Action
	logger   hclog.Logger
	tabWidth int

	width      int
	height     int
	topRow     int64
	column     int
	shouldQuit bool
}

// NewScreen creates and initialises the terminal screen.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	return screen, nil
}

// NewApplication binds an initialised screen to session. The application
// owns the screen from here on and finalises it when Run returns.
func NewApplication(screen tcell.Screen, session *preview.Session, opts Options) *Application {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	actionCh := make(chan inputui.Action, 10)
	w, h := screen.Size()

	return &Application{
		screen:   screen,
		session:  session,
		renderer: renderui.NewRenderer(screen),
		input:    inputui.NewInputHandler(actionCh),
		actionCh: actionCh,
		logger:   logger.Named("app"),
		tabWidth: opts.TabWidth,
		width:    w,
		height:   h,
	}
}

func (app *Application) bodyHeight() int {
	return renderui.BodyHeight(app.height)
}

// view snapshots the session for the renderer.
func (app *Application) view() renderui.View {
	total, final := app.session.TotalRows()
	size, sizeKnown := app.session.TotalSize()
	return renderui.View{
		Path:      app.session.Path(),
		Mode:      app.session.Mode(),
		TotalSize: size,
		SizeKnown: sizeKnown,
		TotalRows: total,
		RowsFinal: final,
		TopRow:    app.topRow,
		Rows:      app.session.Visible(),
		RowWidth:  app.session.RowWidth(),
		TabWidth:  app.tabWidth,
		Column:    app.column,
		Pending:   app.session.Pending(),
		Err:       app.session.LastError(),
	}
}

// pushViewport tells the session what is on screen. One terminal row is
// one row unit, so the scroll offset is the top row index.
func (app *Application) pushViewport() {
	app.session.Handle(preview.ViewportChangedEvent{
		ScrollOffset:   float64(app.topRow),
		ViewportHeight: float64(app.bodyHeight()),
		RowHeight:      1,
	})
}

// maxTopRow is the furthest the viewport may scroll. While the line count
// is still open-ended the limit is the last discovered line, and reaching
// it pulls in the next window.
func (app *Application) maxTopRow() int64 {
	total, final := app.session.TotalRows()
	if !final {
		return total
	}
	return max(total-int64(app.bodyHeight()), 0)
}

func (app *Application) scrollTo(row int64) bool {
	row = max(min(row, app.maxTopRow()), 0)
	if row == app.topRow {
		return false
	}
	app.topRow = row
	app.pushViewport()
	return true
}

func (app *Application) handleAction(action inputui.Action) bool {
	switch a := action.(type) {
	case inputui.QuitAction:
		app.shouldQuit = true
		return false
	case inputui.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	case inputui.ResizeAction:
		app.width, app.height = a.Width, a.Height
		app.topRow = max(min(app.topRow, app.maxTopRow()), 0)
		app.pushViewport()
		return true
	case inputui.ScrollLinesAction:
		return app.scrollTo(app.topRow + int64(a.Delta))
	case inputui.ScrollPagesAction:
		page := int64(max(app.bodyHeight()-1, 1))
		return app.scrollTo(app.topRow + int64(a.Delta)*page)
	case inputui.ScrollHomeAction:
		changed := app.column != 0
		app.column = 0
		return app.scrollTo(0) || changed
	case inputui.ScrollEndAction:
		return app.scrollTo(app.maxTopRow())
	case inputui.ScrollColumnsAction:
		if app.session.Mode() != preview.ModeLines {
			return false
		}
		column := max(app.column+a.Delta, 0)
		if column == app.column {
			return false
		}
		app.column = column
		return true
	}
	return false
}

// applyResult folds a finished fetch into the session.
func (app *Application) applyResult(res preview.FetchResult) bool {
	for _, msg := range app.session.Apply(res) {
		if errMsg, ok := msg.(preview.ErrorMessage); ok {
			app.logger.Warn("fetch failed", "path", errMsg.Path, "offset", errMsg.Offset, "error", errMsg.Error)
		}
	}
	return true
}
