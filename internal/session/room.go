package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/neptino/neptino/editor-go/internal/document"
	"github.com/neptino/neptino/editor-go/internal/geom"
	"github.com/neptino/neptino/editor-go/internal/history"
	"github.com/neptino/neptino/editor-go/internal/overlay"
	"github.com/neptino/neptino/editor-go/internal/scene"
	"github.com/neptino/neptino/editor-go/internal/selection"
	"github.com/neptino/neptino/editor-go/internal/settings"
	"github.com/neptino/neptino/editor-go/internal/tool"
	"github.com/neptino/neptino/editor-go/internal/viewport"
)

// Room owns the authoritative editor state for one open page: the scene
// graph restored from the latest snapshot plus a tool host driving it.
// All message handling is serialized under mu, so tools never see
// concurrent events.
type Room struct {
	mu           sync.Mutex
	pageID       string
	page         document.Page
	rt           *tool.Runtime
	host         *tool.Host
	clients      map[string]*Client
	participants map[string]*participant // clientID -> room-side client state
	dirty        bool
}

// participant is the room-side state for one connected client: the last
// viewport it reported and its most recent presence broadcast.
type participant struct {
	view     ViewPayload
	hasView  bool
	presence *PresencePayload
}

func NewRoom(pageID string, doc *document.PageDocument, synth tool.Synthesizer, historyDepth int) (*Room, error) {
	graph, err := document.Restore(doc)
	if err != nil {
		return nil, fmt.Errorf("restore page %s: %w", pageID, err)
	}

	layer := overlay.NewLayer()
	rt := &tool.Runtime{
		Graph:     graph,
		Viewport:  viewport.New(),
		Overlay:   layer,
		Selection: selection.NewManager(graph),
		Transform: selection.NewTransformHelper(layer),
		Settings:  settings.NewStore(),
		History:   history.NewManager(historyDepth),
	}

	host := tool.NewHost(rt)
	host.Register(tool.NewSelectTool())
	host.Register(tool.NewPenTool())
	host.Register(tool.NewBrushTool())
	host.Register(tool.NewEraserTool())
	host.Register(tool.NewTextTool())
	host.Register(tool.NewTableTool())
	host.Register(tool.NewGenerateTool(synth))
	if err := host.SetActiveTool("select"); err != nil {
		return nil, fmt.Errorf("activate select tool: %w", err)
	}

	room := &Room{
		pageID:       pageID,
		page:         doc.Page,
		rt:           rt,
		host:         host,
		clients:      make(map[string]*Client),
		participants: make(map[string]*participant),
	}
	// async tool results land on the same serialization as client
	// messages
	rt.Post = room.post
	return room, nil
}

// post runs fn under the room lock, marks the page dirty, and pushes a
// fresh frame. Installed as the runtime dispatch hook so tools that
// finish work on another goroutine never touch the graph concurrently
// with a render.
func (r *Room) post(fn func()) {
	r.mu.Lock()
	fn()
	r.dirty = true
	r.mu.Unlock()
	r.broadcastRender()
}

// welcomeMessage builds the initial frame for a joining client.
func (r *Room) welcomeMessage(c *Client) *Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload, err := json.Marshal(WelcomePayload{
		ClientID: c.ClientID,
		Role:     string(c.Role),
		Tool:     r.host.ActiveToolName(),
		Page: PageInfo{
			ID:     r.page.ID,
			Title:  r.page.Title,
			Width:  r.page.Width,
			Height: r.page.Height,
		},
		Commands: scene.CompileDrawCommands(r.rt.Graph),
	})
	if err != nil {
		slog.Error("marshal welcome", "error", err)
		return nil
	}
	return &Message{Type: TypeWelcome, Payload: payload}
}

// handle processes one client message. Editing messages from viewers
// are rejected with an error frame.
func (r *Room) handle(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate, TypeViewUpdate:
		// Always allowed.
	default:
		if !sender.CanEdit() {
			sendError(sender, "viewers cannot edit")
			return
		}
	}

	r.mu.Lock()

	switch msg.Type {
	case TypeToolSelect:
		var p ToolSelectPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			r.mu.Unlock()
			sendError(sender, "invalid tool.select payload")
			return
		}
		if err := r.host.SetActiveTool(p.Tool); err != nil {
			r.mu.Unlock()
			sendError(sender, err.Error())
			return
		}
		r.mu.Unlock()
		r.broadcastToolChanged()
		r.broadcastRender()
		return

	case TypeToolSetting:
		var p ToolSettingPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			r.mu.Unlock()
			sendError(sender, "invalid tool.setting payload")
			return
		}
		r.host.UpdateSetting(p.Key, p.Value)

	case TypePointerDown, TypePointerMove, TypePointerUp, TypePointerCancel:
		var p PointerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			r.mu.Unlock()
			sendError(sender, "invalid pointer payload")
			return
		}
		r.applyViewLocked(sender.ClientID)
		screen := geom.Pt(p.X, p.Y)
		mods := tool.Modifiers{Shift: p.Shift, Ctrl: p.Ctrl, Alt: p.Alt, Meta: p.Meta}
		switch msg.Type {
		case TypePointerDown:
			r.host.PointerDown(screen, p.PointerID, p.Buttons, mods)
		case TypePointerMove:
			r.host.PointerMove(screen, p.PointerID, p.Buttons, mods)
		case TypePointerUp:
			r.host.PointerUp(screen, p.PointerID, p.Buttons, mods)
		case TypePointerCancel:
			r.host.PointerCancel(screen, p.PointerID)
		}

	case TypeKeyDown:
		var p KeyPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			r.mu.Unlock()
			sendError(sender, "invalid key payload")
			return
		}
		r.host.KeyDown(tool.KeyEvent{
			Key:       p.Key,
			Modifiers: tool.Modifiers{Shift: p.Shift, Ctrl: p.Ctrl, Alt: p.Alt, Meta: p.Meta},
		})

	case TypeHistoryUndo:
		r.rt.History.Undo()

	case TypeHistoryRedo:
		r.rt.History.Redo()

	case TypeViewUpdate:
		var p ViewPayload
		if err := json.Unmarshal(msg.Payload, &p); err == nil {
			if part, ok := r.participants[sender.ClientID]; ok {
				part.view = p
				part.hasView = true
			}
		}
		r.mu.Unlock()
		return

	case TypePresenceUpdate:
		r.mu.Unlock()
		r.handlePresenceUpdate(sender, msg)
		return

	case TypeDocSave:
		r.dirty = true
		r.mu.Unlock()
		return

	default:
		r.mu.Unlock()
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		return
	}

	r.dirty = true
	r.mu.Unlock()
	r.broadcastRender()
}

// applyViewLocked points the room viewport at the sender's last reported
// zoom and pan so their screen coordinates land on the right world
// points, and mirrors the zoom onto the graph so tools that keep pick
// radii and stroke widths screen-constant divide by the right factor.
// Defaults to identity when the client never reported a view.
func (r *Room) applyViewLocked(clientID string) {
	p, ok := r.participants[clientID]
	if !ok || !p.hasView || p.view.Zoom <= 0 {
		r.rt.Viewport.SetZoom(1)
		r.rt.Viewport.SetPan(geom.Pt(0, 0))
		r.rt.Graph.SetZoom(1)
		return
	}
	r.rt.Viewport.SetZoom(p.view.Zoom)
	r.rt.Viewport.SetPan(geom.Pt(p.view.PanX, p.view.PanY))
	r.rt.Graph.SetZoom(p.view.Zoom)
}

func (r *Room) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}
	presence.DisplayName = sender.DisplayName

	r.mu.Lock()
	if part, ok := r.participants[sender.ClientID]; ok {
		part.presence = &presence
	}
	r.mu.Unlock()

	outPayload, _ := json.Marshal(presence)
	r.broadcast(&Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}, sender.ClientID)
}

// addParticipant registers a client with the room.
func (r *Room) addParticipant(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ClientID] = c
	r.participants[c.ClientID] = &participant{}
}

// removeParticipant detaches a client. present is false when the client
// was never (or no longer) registered; empty is true when the room has
// no clients left.
func (r *Room) removeParticipant(c *Client) (present, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.ClientID]; !ok {
		return false, len(r.clients) == 0
	}
	delete(r.clients, c.ClientID)
	delete(r.participants, c.ClientID)
	return true, len(r.clients) == 0
}

// presenceStateMessage builds the full-state frame sent to a joining
// client, keyed by user id like the incremental updates.
func (r *Room) presenceStateMessage() *Message {
	r.mu.Lock()
	all := make(map[string]*PresencePayload)
	for id, c := range r.clients {
		if part := r.participants[id]; part != nil && part.presence != nil {
			all[c.UserID] = part.presence
		}
	}
	r.mu.Unlock()

	payload, err := json.Marshal(PresenceStatePayload{Presences: all})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{Type: TypePresenceState, Payload: payload}
}

// broadcastRender pushes the full draw command buffer to every client.
func (r *Room) broadcastRender() {
	r.mu.Lock()
	commands := scene.CompileDrawCommands(r.rt.Graph)
	r.mu.Unlock()

	payload, err := json.Marshal(RenderPayload{Commands: commands})
	if err != nil {
		slog.Error("marshal render", "error", err)
		return
	}
	r.broadcast(&Message{Type: TypeSceneRender, Payload: payload}, "")
}

func (r *Room) broadcastToolChanged() {
	r.mu.Lock()
	name := r.host.ActiveToolName()
	r.mu.Unlock()

	payload, _ := json.Marshal(ToolChangedPayload{Tool: name})
	r.broadcast(&Message{Type: TypeToolChanged, Payload: payload}, "")
}

func (r *Room) broadcast(msg *Message, excludeClientID string) {
	r.mu.Lock()
	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	r.mu.Unlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

// Snapshot serializes the current graph, clearing the dirty flag. It
// returns nil when nothing changed since the last snapshot.
func (r *Room) Snapshot() *document.PageDocument {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.dirty {
		return nil
	}
	r.dirty = false
	return document.Serialize(r.page, r.rt.Graph)
}

// Close shuts down the tool host, cancelling any in-flight gesture or
// synthesis.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.host.Close()
}

func sendError(c *Client, reason string) {
	payload, _ := json.Marshal(ErrorPayload{Reason: reason})
	c.Send(&Message{Type: TypeError, Payload: payload})
}
