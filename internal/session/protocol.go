package session

import (
	"encoding/json"

	"github.com/neptino/neptino/editor-go/internal/scene"
)

// Message is the envelope for every frame on a session socket, in both
// directions. Payload decoding depends on Type.
type Message struct {
	Type     string          `json:"type"`
	PageID   string          `json:"pageId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Client to server.
const (
	TypeToolSelect    = "tool.select"
	TypeToolSetting   = "tool.setting"
	TypePointerDown   = "pointer.down"
	TypePointerMove   = "pointer.move"
	TypePointerUp     = "pointer.up"
	TypePointerCancel = "pointer.cancel"
	TypeKeyDown       = "key.down"
	TypeHistoryUndo   = "history.undo"
	TypeHistoryRedo   = "history.redo"
	TypeViewUpdate    = "view.update"
	TypeDocSave       = "doc.save"
)

// Server to client.
const (
	TypeWelcome     = "welcome"
	TypeSceneRender = "scene.render"
	TypeToolChanged = "tool.changed"
	TypeError       = "error"
)

// Both directions.
const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
)

// ToolSelectPayload switches the room's active tool.
type ToolSelectPayload struct {
	Tool string `json:"tool"`
}

// ToolSettingPayload updates one tool setting. Value is any JSON
// scalar; the settings store coerces it per key.
type ToolSettingPayload struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// PointerPayload carries one pointer event in screen coordinates. The
// room derives world coordinates from the sender's viewport, so two
// editors at different zoom levels address the same page points.
type PointerPayload struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	PointerID int     `json:"pointerId"`
	Buttons   int     `json:"buttons"`
	Shift     bool    `json:"shift,omitempty"`
	Ctrl      bool    `json:"ctrl,omitempty"`
	Alt       bool    `json:"alt,omitempty"`
	Meta      bool    `json:"meta,omitempty"`
}

// KeyPayload carries one key press for the active tool.
type KeyPayload struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift,omitempty"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Alt   bool   `json:"alt,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
}

// ViewPayload reports the sender's viewport so the room can map that
// client's screen coordinates to world coordinates.
type ViewPayload struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

// WelcomePayload is the first frame sent to a new connection.
type WelcomePayload struct {
	ClientID string              `json:"clientId"`
	Role     string              `json:"role"`
	Tool     string              `json:"tool"`
	Page     PageInfo            `json:"page"`
	Commands []scene.DrawCommand `json:"commands"`
}

// PageInfo is the page metadata echoed in the welcome frame.
type PageInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// RenderPayload is the full draw command buffer in painter's order.
type RenderPayload struct {
	Commands []scene.DrawCommand `json:"commands"`
}

// ToolChangedPayload announces the room's active tool.
type ToolChangedPayload struct {
	Tool string `json:"tool"`
}

// ErrorPayload reports a rejected message.
type ErrorPayload struct {
	Reason string `json:"reason"`
}

// PresencePayload is one participant's live state.
type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Tool        string     `json:"tool,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

// CursorPos is a cursor position in world coordinates.
type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PresenceStatePayload is the full presence map sent on join.
type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}
