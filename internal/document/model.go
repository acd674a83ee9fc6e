// Package document defines the persisted form of a page: its metadata
// plus the ordered scene objects, serialized as renderer path commands.
package document

import (
	"fmt"

	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

// ObjectKind discriminates the serialized object records.
type ObjectKind string

const (
	KindGraphics ObjectKind = "graphics"
	KindText     ObjectKind = "text"
)

type Page struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Version int    `json:"version"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// TextData carries the text-specific fields of a KindText record.
type TextData struct {
	Content  string  `json:"content"`
	CenterX  float64 `json:"cx"`
	CenterY  float64 `json:"cy"`
	FontSize float64 `json:"fontSize"`
	Color    uint32  `json:"color"`
}

// ObjectRecord is one scene object in sibling order. Graphics objects
// store their path command list plus the accumulated translation;
// text objects store their TextData.
type ObjectRecord struct {
	ID       string              `json:"id"`
	Kind     ObjectKind          `json:"kind"`
	Name     string              `json:"name,omitempty"`
	Tag      string              `json:"tag,omitempty"`
	OffsetX  float64             `json:"ox,omitempty"`
	OffsetY  float64             `json:"oy,omitempty"`
	Commands []scene.PathCommand `json:"commands,omitempty"`
	Text     *TextData           `json:"text,omitempty"`
}

// PageDocument is the snapshot payload stored per page version.
type PageDocument struct {
	Page    Page           `json:"page"`
	Objects []ObjectRecord `json:"objects"`
}

// Serialize captures the graph's objects in sibling order.
func Serialize(page Page, g *scene.Graph) *PageDocument {
	doc := &PageDocument{Page: page}
	for _, target := range g.ObjectsSnapshot() {
		rec := ObjectRecord{
			ID:   target.ID,
			Name: target.Object.Name(),
			Tag:  target.Object.Tag(),
		}
		switch obj := target.Object.(type) {
		case *scene.Graphics:
			rec.Kind = KindGraphics
			rec.Commands = obj.Commands()
			off := obj.Offset()
			rec.OffsetX, rec.OffsetY = off.X, off.Y
		case *scene.Text:
			rec.Kind = KindText
			c := obj.Center()
			rec.Text = &TextData{
				Content:  obj.Content(),
				CenterX:  c.X,
				CenterY:  c.Y,
				FontSize: obj.FontSize(),
				Color:    obj.Color(),
			}
		default:
			continue
		}
		doc.Objects = append(doc.Objects, rec)
	}
	return doc
}

// Restore rebuilds a scene graph from the document, preserving object
// ids and sibling order.
func Restore(doc *PageDocument) (*scene.Graph, error) {
	canvas := geom.Rect{
		Width:  float64(doc.Page.Width),
		Height: float64(doc.Page.Height),
	}
	g := scene.NewGraph(canvas)

	for i, rec := range doc.Objects {
		obj, err := restoreObject(rec)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, rec.ID, err)
		}
		g.InsertObjectAt(rec.ID, obj, i)
		if g.Object(rec.ID) == nil {
			return nil, fmt.Errorf("object %d (%s): not registered", i, rec.ID)
		}
	}
	return g, nil
}

func restoreObject(rec ObjectRecord) (scene.DisplayObject, error) {
	switch rec.Kind {
	case KindText:
		if rec.Text == nil {
			return nil, fmt.Errorf("text record without text data")
		}
		txt := scene.NewText(
			rec.Text.Content,
			geom.Pt(rec.Text.CenterX, rec.Text.CenterY),
			rec.Text.FontSize,
			rec.Text.Color,
		)
		txt.SetName(rec.Name)
		txt.SetTag(rec.Tag)
		return txt, nil
	case KindGraphics:
		gfx := scene.NewGraphics()
		gfx.SetName(rec.Name)
		gfx.SetTag(rec.Tag)
		if err := replayCommands(gfx, rec.Commands); err != nil {
			return nil, err
		}
		gfx.Translate(rec.OffsetX, rec.OffsetY)
		return gfx, nil
	default:
		return nil, fmt.Errorf("unknown object kind %q", rec.Kind)
	}
}

// replayCommands feeds a stored command list back through the Graphics
// builder. JSON round-trips the numeric arguments as float64, which
// matches the command layout.
func replayCommands(gfx *scene.Graphics, cmds []scene.PathCommand) error {
	for i, cmd := range cmds {
		if len(cmd) == 0 {
			return fmt.Errorf("command %d: empty", i)
		}
		tag, ok := cmd[0].(string)
		if !ok {
			return fmt.Errorf("command %d: non-string opcode", i)
		}

		args, err := commandArgs(cmd, argCount(tag))
		if err != nil {
			return fmt.Errorf("command %d (%s): %w", i, tag, err)
		}

		switch tag {
		case "S":
			gfx.SetStroke(args[0], uint32(args[1]), args[2])
		case "F":
			gfx.SetFill(uint32(args[0]), args[1])
		case "M":
			gfx.MoveTo(args[0], args[1])
		case "L":
			gfx.LineTo(args[0], args[1])
		case "Q":
			gfx.QuadraticCurveTo(args[0], args[1], args[2], args[3])
		case "C":
			gfx.BezierCurveTo(args[0], args[1], args[2], args[3], args[4], args[5])
		case "O":
			gfx.DrawCircle(args[0], args[1], args[2])
		case "R":
			gfx.DrawRect(args[0], args[1], args[2], args[3])
		case "Z":
			gfx.ClosePath()
		default:
			return fmt.Errorf("command %d: unknown opcode %q", i, tag)
		}
	}
	return nil
}

func argCount(tag string) int {
	switch tag {
	case "Z":
		return 0
	case "F", "M", "L":
		return 2
	case "S", "O":
		return 3
	case "Q", "R":
		return 4
	case "C":
		return 6
	default:
		return -1
	}
}

func commandArgs(cmd scene.PathCommand, n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("unknown opcode")
	}
	if len(cmd)-1 < n {
		return nil, fmt.Errorf("want %d args, have %d", n, len(cmd)-1)
	}
	args := make([]float64, n)
	for i := 0; i < n; i++ {
		switch v := cmd[i+1].(type) {
		case float64:
			args[i] = v
		case int:
			args[i] = float64(v)
		case uint32:
			args[i] = float64(v)
		default:
			return nil, fmt.Errorf("arg %d: unsupported type %T", i, v)
		}
	}
	return args, nil
}
