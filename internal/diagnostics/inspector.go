// Package diagnostics hosts the development-only inspection server: a
// localhost endpoint exposing host state snapshots and a websocket stream of
// update-session changes. It never runs in production builds and every
// failure here is non-fatal.
package diagnostics

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/taskdeck-app/taskdeck/internal/domain"
)

const shutdownTimeout = 3 * time.Second

// Snapshot 主机状态快照
type Snapshot struct {
	InstanceID  string             `json:"instanceId"`
	Version     string             `json:"version"`
	WindowState domain.WindowState `json:"windowState"`
	UpdateState domain.UpdateState `json:"updateState"`
}

// StateSource supplies the current snapshot on demand.
type StateSource func() Snapshot

// Inspector serves /state and /ws on a localhost listener, plus the staged
// attach page when ServeFrom points it at the install directory.
type Inspector struct {
	source   StateSource
	assetDir string
	server   *http.Server
	addr     string
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewInspector(source StateSource) *Inspector {
	return &Inspector{
		source:  source,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeFrom sets the staged asset directory served at the listener root so
// the attach page resolves /ws on the same host. Call before Start.
func (i *Inspector) ServeFrom(dir string) {
	i.assetDir = dir
}

// Addr returns the listening address once Start has succeeded.
func (i *Inspector) Addr() string {
	return i.addr
}

// Start listens on an ephemeral localhost port. The chosen address is
// logged so a dev client can attach.
func (i *Inspector) Start() error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("inspector listen: %w", err)
	}
	i.addr = ln.Addr().String()

	mux := http.NewServeMux()
	mux.HandleFunc("/state", i.handleState)
	mux.HandleFunc("/ws", i.handleWS)
	if i.assetDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(i.assetDir)))
	}
	i.server = &http.Server{Handler: mux}

	go func() {
		if err := i.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("Warning: [Inspector] Server error: %v", err)
		}
	}()

	log.Printf("[Inspector] Listening on http://%s", ln.Addr())
	return nil
}

func (i *Inspector) Stop() {
	if i.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := i.server.Shutdown(ctx); err != nil {
		log.Printf("Warning: [Inspector] Shutdown: %v", err)
	}
}

func (i *Inspector) handleState(w http.ResponseWriter, r *http.Request) {
	data, err := sonic.Marshal(i.source())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (i *Inspector) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Warning: [Inspector] Upgrade failed: %v", err)
		return
	}

	i.mu.Lock()
	i.clients[conn] = struct{}{}
	i.mu.Unlock()

	// Reader loop only exists to detect disconnects.
	go func() {
		defer i.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (i *Inspector) drop(conn *websocket.Conn) {
	i.mu.Lock()
	delete(i.clients, conn)
	i.mu.Unlock()
	conn.Close()
}

// BroadcastUpdateState pushes a fresh snapshot to every attached client.
// Wire it as an update-controller listener.
func (i *Inspector) BroadcastUpdateState(domain.UpdateState) {
	data, err := sonic.Marshal(i.source())
	if err != nil {
		return
	}

	i.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(i.clients))
	for conn := range i.clients {
		conns = append(conns, conn)
	}
	i.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			i.drop(conn)
		}
	}
}
