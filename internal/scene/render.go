package scene

import "encoding/json"

// PathCommand represents a single path or style step for rendering.
// Format matches Canvas2D-style command arrays: ["M", x, y], ["L", x, y],
// ["Q", cx, cy, x, y], ["C", c1x, c1y, c2x, c2y, x, y], ["O", cx, cy, r],
// ["R", x, y, w, h], ["Z"], plus style steps ["S", width, color, alpha]
// and ["F", color, alpha].
type PathCommand []interface{}

// DrawCommand represents a single drawing operation for the frontend to
// execute. The frontend receives a list of these and replays them on a
// Canvas2D context.
type DrawCommand struct {
	Op       string        `json:"op"` // "path" or "text"
	ObjectID string        `json:"objectId,omitempty"`
	Offset   []float64     `json:"offset,omitempty"` // [dx, dy] world translation
	Path     []PathCommand `json:"path,omitempty"`

	// Text fields
	Text     string    `json:"text,omitempty"`
	Center   []float64 `json:"center,omitempty"`
	FontSize float64   `json:"fontSize,omitempty"`
	Color    uint32    `json:"color,omitempty"`
}

// CompileDrawCommands generates a draw command buffer from the graph.
// Commands are in painter's order (back to front).
func CompileDrawCommands(g *Graph) []DrawCommand {
	if g == nil {
		return nil
	}

	var commands []DrawCommand
	for _, target := range g.ObjectsSnapshot() {
		switch obj := target.Object.(type) {
		case *Graphics:
			if obj.Empty() {
				continue
			}
			cmd := DrawCommand{
				Op:       "path",
				ObjectID: target.ID,
				Path:     compilePath(obj),
			}
			if off := obj.Offset(); off.X != 0 || off.Y != 0 {
				cmd.Offset = []float64{off.X, off.Y}
			}
			commands = append(commands, cmd)
		case *Text:
			c := obj.Center()
			commands = append(commands, DrawCommand{
				Op:       "text",
				ObjectID: target.ID,
				Text:     obj.Content(),
				Center:   []float64{c.X, c.Y},
				FontSize: obj.FontSize(),
				Color:    obj.Color(),
			})
		}
	}
	return commands
}

func compilePath(gr *Graphics) []PathCommand {
	out := make([]PathCommand, 0, len(gr.ops))
	for _, o := range gr.ops {
		switch o.kind {
		case opStroke:
			out = append(out, PathCommand{"S", o.width, o.color, o.alpha})
		case opFill:
			out = append(out, PathCommand{"F", o.color, o.alpha})
		case opMoveTo:
			out = append(out, PathCommand{"M", o.pts[0], o.pts[1]})
		case opLineTo:
			out = append(out, PathCommand{"L", o.pts[0], o.pts[1]})
		case opQuadTo:
			out = append(out, PathCommand{"Q", o.pts[0], o.pts[1], o.pts[2], o.pts[3]})
		case opCubicTo:
			out = append(out, PathCommand{"C", o.pts[0], o.pts[1], o.pts[2], o.pts[3], o.pts[4], o.pts[5]})
		case opCircle:
			out = append(out, PathCommand{"O", o.pts[0], o.pts[1], o.pts[2]})
		case opRect:
			out = append(out, PathCommand{"R", o.pts[0], o.pts[1], o.pts[2], o.pts[3]})
		case opClose:
			out = append(out, PathCommand{"Z"})
		}
	}
	return out
}

// Commands returns the primitive's recorded operations as renderer
// command arrays.
func (gr *Graphics) Commands() []PathCommand {
	return compilePath(gr)
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
