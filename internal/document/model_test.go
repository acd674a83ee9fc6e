package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/scene"
)

func buildTestGraph() *scene.Graph {
	g := scene.NewGraph(geom.Rect{Width: 794, Height: 1123})

	stroke := scene.NewGraphics()
	stroke.SetName("ink")
	stroke.SetStroke(3, 0x1d4ed8, 1)
	stroke.MoveTo(10, 10)
	stroke.QuadraticCurveTo(30, 0, 50, 10)
	stroke.LineTo(70, 40)
	g.InsertObjectAt("obj_stroke", stroke, 0)

	shape := scene.NewGraphics()
	shape.SetTag("protected")
	shape.SetFill(0xfecaca, 0.8)
	shape.DrawRect(100, 100, 60, 40)
	shape.Translate(5, -3)
	g.InsertObjectAt("obj_shape", shape, 1)

	label := scene.NewText("Chapter 1", geom.Pt(200, 60), 24, 0x111111)
	label.SetName("heading")
	g.InsertObjectAt("obj_label", label, 2)

	return g
}

func TestSerializeCapturesSiblingOrder(t *testing.T) {
	page := Page{ID: "page_1", Title: "Lesson", Version: 1, Width: 794, Height: 1123}
	doc := Serialize(page, buildTestGraph())

	require.Len(t, doc.Objects, 3)
	assert.Equal(t, "obj_stroke", doc.Objects[0].ID)
	assert.Equal(t, "obj_shape", doc.Objects[1].ID)
	assert.Equal(t, "obj_label", doc.Objects[2].ID)

	assert.Equal(t, KindGraphics, doc.Objects[0].Kind)
	assert.Equal(t, KindText, doc.Objects[2].Kind)
	assert.Equal(t, "protected", doc.Objects[1].Tag)
	assert.Equal(t, 5.0, doc.Objects[1].OffsetX)
	assert.Equal(t, -3.0, doc.Objects[1].OffsetY)

	require.NotNil(t, doc.Objects[2].Text)
	assert.Equal(t, "Chapter 1", doc.Objects[2].Text.Content)
	assert.Equal(t, 24.0, doc.Objects[2].Text.FontSize)
}

func TestRestoreRoundTripThroughJSON(t *testing.T) {
	page := Page{ID: "page_1", Title: "Lesson", Version: 1, Width: 794, Height: 1123}
	original := buildTestGraph()
	doc := Serialize(page, original)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded PageDocument
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := Restore(&decoded)
	require.NoError(t, err)

	origObjs := original.ObjectsSnapshot()
	restObjs := restored.ObjectsSnapshot()
	require.Len(t, restObjs, len(origObjs))

	for i, target := range restObjs {
		assert.Equal(t, origObjs[i].ID, target.ID, "sibling order must survive")
	}

	// Replayed graphics compile to the same command lists.
	origStroke := original.Object("obj_stroke").(*scene.Graphics)
	restStroke := restored.Object("obj_stroke").(*scene.Graphics)
	assert.Equal(t, origStroke.Commands(), restStroke.Commands())

	restShape := restored.Object("obj_shape").(*scene.Graphics)
	assert.Equal(t, geom.Pt(5, -3), restShape.Offset())
	assert.Equal(t, "protected", restShape.Tag())

	restLabel := restored.Object("obj_label").(*scene.Text)
	assert.Equal(t, "Chapter 1", restLabel.Content())
	assert.Equal(t, geom.Pt(200, 60), restLabel.Center())
	assert.Equal(t, uint32(0x111111), restLabel.Color())
}

func TestRestoreRejectsUnknownOpcode(t *testing.T) {
	doc := &PageDocument{
		Page: Page{ID: "page_1", Width: 100, Height: 100},
		Objects: []ObjectRecord{{
			ID:       "obj_bad",
			Kind:     KindGraphics,
			Commands: []scene.PathCommand{{"X", 1.0, 2.0}},
		}},
	}

	_, err := Restore(doc)
	assert.Error(t, err)
}

func TestRestoreRejectsTextWithoutData(t *testing.T) {
	doc := &PageDocument{
		Page:    Page{ID: "page_1", Width: 100, Height: 100},
		Objects: []ObjectRecord{{ID: "obj_t", Kind: KindText}},
	}

	_, err := Restore(doc)
	assert.Error(t, err)
}

func TestNewStarterDocument(t *testing.T) {
	doc := NewStarterDocument("page_42", "Biology 101")

	assert.Equal(t, "page_42", doc.Page.ID)
	assert.Equal(t, DefaultPageWidth, doc.Page.Width)
	assert.Equal(t, DefaultPageHeight, doc.Page.Height)

	require.Len(t, doc.Objects, 2)
	assert.Equal(t, "protected", doc.Objects[0].Tag)
	assert.Equal(t, KindGraphics, doc.Objects[0].Kind)

	require.NotNil(t, doc.Objects[1].Text)
	assert.Equal(t, "Biology 101", doc.Objects[1].Text.Content)

	// The starter document must survive a restore.
	g, err := Restore(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}
