package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"masterlink/internal/models"
)

const (
	readLimit     = 1 << 20
	readDeadline  = 120 * time.Second
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second
)

type directMsg struct {
	userID int
	event  models.WSEvent
}

type unreg struct {
	userID int
	conn   *websocket.Conn
}

type Client struct {
	ID     int
	Socket *websocket.Conn
}

// WebSocketManager fans engine events out to connected clients. All access
// to the clients map happens on the Run goroutine.
type WebSocketManager struct {
	clients    map[int]*websocket.Conn
	direct     chan directMsg
	register   chan Client
	unregister chan unreg
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[int]*websocket.Conn),
		direct:     make(chan directMsg),
		register:   make(chan Client),
		unregister: make(chan unreg),
	}
}

func (ws *WebSocketManager) Run() {
	for {
		select {
		case client := <-ws.register:
			// a user gets one socket; a newer connection replaces the old one
			if old, ok := ws.clients[client.ID]; ok && old != nil && old != client.Socket {
				_ = old.Close()
			}
			ws.clients[client.ID] = client.Socket

		case u := <-ws.unregister:
			if cur, ok := ws.clients[u.userID]; ok && cur == u.conn {
				_ = cur.Close()
				delete(ws.clients, u.userID)
			}

		case dm := <-ws.direct:
			conn, ok := ws.clients[dm.userID]
			if !ok {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteJSON(dm.event); err != nil {
				_ = conn.Close()
				delete(ws.clients, dm.userID)
			}
		}
	}
}

// PushToUser implements services.Pusher. Events for offline users are
// dropped; the dispatch rows remain the source of truth.
func (ws *WebSocketManager) PushToUser(userID int, ev models.WSEvent) {
	ws.direct <- directMsg{userID: userID, event: ev}
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: true,
}

// WebSocketHandler upgrades the connection after verifying the JWT passed
// in the token query parameter.
func (app *application) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	subject, err := app.tokenManager.Parse(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	userID, err := strconv.Atoi(subject)
	if err != nil || userID <= 0 {
		http.Error(w, "Invalid token subject", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.errorLog.Printf("websocket upgrade: %v", err)
		return
	}

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	app.wsManager.register <- Client{ID: userID, Socket: conn}

	go app.pingLoop(conn, userID)
	go app.readLoop(conn, userID)
}

func (app *application) pingLoop(conn *websocket.Conn, userID int) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for range t.C {
		_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			_ = writeClose(conn, websocket.CloseGoingAway, "ping error")
			app.wsManager.unregister <- unreg{userID: userID, conn: conn}
			return
		}
	}
}

// readLoop drains client frames. The channel is push-only; anything the
// client sends besides control frames is discarded.
func (app *application) readLoop(conn *websocket.Conn, userID int) {
	defer func() {
		app.wsManager.unregister <- unreg{userID: userID, conn: conn}
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeClose(conn *websocket.Conn, code int, reason string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeDeadline),
	)
}
