package document

import (
	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/scene"
	"github.com/neptino/neptino/editor-go/internal/typeid"
)

// Default page dimensions, A4 portrait at 96 dpi.
const (
	DefaultPageWidth  = 794
	DefaultPageHeight = 1123
)

// NewStarterDocument builds the initial snapshot for a fresh page: the
// protected page frame plus a centered title block.
func NewStarterDocument(pageID, title string) *PageDocument {
	page := Page{
		ID:      pageID,
		Title:   title,
		Version: 1,
		Width:   DefaultPageWidth,
		Height:  DefaultPageHeight,
	}

	g := scene.NewGraph(geom.Rect{Width: DefaultPageWidth, Height: DefaultPageHeight})

	frame := scene.NewGraphics()
	frame.SetName("protected:page-frame")
	frame.SetTag("protected")
	frame.SetStroke(1, 0xd4d4d8, 1)
	frame.DrawRect(24, 24, DefaultPageWidth-48, DefaultPageHeight-48)
	g.InsertObjectAt(typeid.NewObjectID(), frame, 0)

	heading := scene.NewText(title, geom.Pt(DefaultPageWidth/2, 80), 28, 0x111111)
	heading.SetName("page-title")
	g.InsertObjectAt(typeid.NewObjectID(), heading, 1)

	return Serialize(page, g)
}
