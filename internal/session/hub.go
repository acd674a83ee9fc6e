package session

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/neptino/neptino/editor-go/internal/document"
	"github.com/neptino/neptino/editor-go/internal/tool"
)

const saveInterval = 30 * time.Second

// DocLoader fetches the latest persisted document for a page.
type DocLoader func(pageID string) (*document.PageDocument, error)

// DocSaver persists a new document snapshot for a page.
type DocSaver func(pageID string, doc *document.PageDocument) error

// Hub owns all live page rooms. Rooms are created lazily when the first
// client joins and torn down (after a final save) when the last one
// leaves.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // pageID -> room
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}

	loader       DocLoader
	saver        DocSaver
	synth        tool.Synthesizer
	historyDepth int
}

func NewHub(loader DocLoader, saver DocSaver, synth tool.Synthesizer, historyDepth int) *Hub {
	return &Hub{
		rooms:        make(map[string]*Room),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
		loader:       loader,
		saver:        saver,
		synth:        synth,
		historyDepth: historyDepth,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(saveInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.saveDirtyRooms()
		case <-h.stop:
			h.saveDirtyRooms()
			close(h.done)
			return
		}
	}
}

// Stop flushes every dirty room and halts the run loop. Blocks until
// the final save completes.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.PageID]
	if !ok {
		doc, err := h.loader(client.PageID)
		if err != nil {
			h.mu.Unlock()
			slog.Error("load page document", "error", err, "page", client.PageID)
			sendError(client, "failed to load page")
			close(client.send)
			return
		}
		room, err = NewRoom(client.PageID, doc, h.synth, h.historyDepth)
		if err != nil {
			h.mu.Unlock()
			slog.Error("create room", "error", err, "page", client.PageID)
			sendError(client, "failed to open page")
			close(client.send)
			return
		}
		h.rooms[client.PageID] = room
	}
	room.addParticipant(client)
	h.mu.Unlock()

	if welcome := room.welcomeMessage(client); welcome != nil {
		client.Send(welcome)
	}
	if stateMsg := room.presenceStateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	room.broadcast(&Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "page", client.PageID, "role", client.Role)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.PageID]
	if !ok {
		h.mu.Unlock()
		return
	}

	present, empty := room.removeParticipant(client)
	if !present {
		h.mu.Unlock()
		return
	}
	close(client.send)

	if empty {
		delete(h.rooms, client.PageID)
	}
	h.mu.Unlock()

	if empty {
		h.saveRoom(room)
		room.Close()
	} else {
		leavePayload, _ := json.Marshal(PresenceLeavePayload{
			UserID: client.UserID,
		})
		room.broadcast(&Message{
			Type:    TypePresenceLeave,
			UserID:  client.UserID,
			Payload: leavePayload,
		}, "")
	}

	slog.Info("client left", "user", client.UserID, "page", client.PageID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	h.mu.RLock()
	room, ok := h.rooms[sender.PageID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	room.handle(sender, msg)
}

func (h *Hub) saveDirtyRooms() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.RUnlock()

	for _, room := range rooms {
		h.saveRoom(room)
	}
}

func (h *Hub) saveRoom(room *Room) {
	doc := room.Snapshot()
	if doc == nil {
		return
	}
	if err := h.saver(room.pageID, doc); err != nil {
		slog.Error("save page document", "error", err, "page", room.pageID)
		// Leave the room dirty so the next save cycle retries.
		room.mu.Lock()
		room.dirty = true
		room.mu.Unlock()
	}
}
