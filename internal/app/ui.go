package app

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/boxmod/version"
)

const statusTimeout = 4 * time.Second

var helpLines = []string{
	"1 face drag   2 extrude   3 vertex drag",
	"LMB drag      RMB orbit   MMB pan   wheel zoom",
	"L lock hovered   C loop cut at edge   F park other hand",
	"Tab swap hands   Ctrl+Z undo   Ctrl+Y redo   Ctrl+S save",
	"W wireframe   S faces   M handles   7/8/9 views   Home reset",
}

func (app *App) setStatus(text string) {
	app.Status = StatusState{text: text, at: time.Now()}
	app.log.Debug(text)
}

func (app *App) setError(op string, err error) {
	app.Status = StatusState{text: fmt.Sprintf("%s: %v", op, err), at: time.Now(), err: true}
	app.log.Warn(op+" failed", "err", err)
}

// drawUI draws the user interface
func (app *App) drawUI() {
	const fontSize = 18
	const lineHeight = 22
	x, y := int32(10), int32(10)

	m := app.Editor.Mesh()
	hist := app.Editor.History()
	hand := app.Hands.active

	lines := []string{
		fmt.Sprintf("boxmod %s  %s", version.GetVersion(), app.FileWatch.sourceFile),
		fmt.Sprintf("faces %d  vertices %d  groups %d", m.FaceCount(), m.VertexCount(), len(m.SharedVertices())),
		fmt.Sprintf("mode %s  hand %s (%s)", app.Interaction.mode, hand, app.Editor.State(hand)),
		fmt.Sprintf("undo %d  redo %d", hist.UndoLen(), hist.RedoLen()),
	}
	for _, line := range lines {
		rl.DrawText(line, x, y, fontSize, rl.LightGray)
		y += lineHeight
	}

	if app.View.showHelp {
		y += lineHeight / 2
		for _, line := range helpLines {
			rl.DrawText(line, x, y, fontSize-2, rl.Gray)
			y += lineHeight - 2
		}
	}

	screenWidth := int32(rl.GetScreenWidth())
	screenHeight := int32(rl.GetScreenHeight())

	fps := fmt.Sprintf("%d fps", rl.GetFPS())
	rl.DrawText(fps, screenWidth-rl.MeasureText(fps, fontSize)-10, 10, fontSize, rl.Gray)

	if app.Status.text != "" && time.Since(app.Status.at) < statusTimeout {
		color := rl.Yellow
		if app.Status.err {
			color = rl.Red
		}
		w := rl.MeasureText(app.Status.text, fontSize) + 20
		boxY := screenHeight - lineHeight - 30
		rl.DrawRectangle(10, boxY, w, lineHeight+10, rl.NewColor(0, 0, 0, 200))
		rl.DrawText(app.Status.text, 20, boxY+6, fontSize, color)
	}
}
