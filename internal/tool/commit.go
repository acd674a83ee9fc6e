package tool

import (
	"fmt"

	"github.com/neptino/neptino/editor-go/internal/history"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

// recordInsert pushes a history entry for an object a tool just added to
// the graph. Undo detaches the object without destroying it; redo
// re-inserts it at its original sibling index, mirroring how the eraser
// records removals.
func recordInsert(rt *Runtime, id string, obj scene.DisplayObject, label string) {
	graph := rt.Graph
	index := graph.IndexOf(id)
	if index < 0 {
		return
	}

	rt.History.Push(history.Entry{
		Label: label,
		Undo: func() error {
			// detach only, so redo can bring the same object back
			graph.RemoveObject(id)
			return nil
		},
		Redo: func() error {
			graph.InsertObjectAt(id, obj, index)
			if graph.Object(id) == nil {
				return fmt.Errorf("restore %s: object not re-registered", id)
			}
			return nil
		},
	})
}
