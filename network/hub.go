// Package network streams scene patches to websocket clients
package network

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/holodisc/core"
	"github.com/lixenwraith/holodisc/scene"
	"github.com/lixenwraith/holodisc/status"
)

// Source is the scene state clients subscribe to
// AddSink must return the state current at registration
type Source interface {
	AddSink(scene.Sink) []scene.Batch
	RemoveSink(scene.Sink)
}

// Status is the body served on /status
type Status struct {
	Clients []string        `json:"clients"`
	Metrics []status.Metric `json:"metrics"`
}

// Hub accepts websocket subscribers; each client is registered on the Source as its own sink
type Hub struct {
	config   *Config
	source   Source
	metrics  *status.Registry
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client

	statClients *atomic.Int64
	statSent    *atomic.Int64
	statDropped *atomic.Int64
}

func NewHub(source Source, cfg *Config, metrics *status.Registry, logger *log.Logger) *Hub {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		config:  cfg,
		source:  source,
		metrics: metrics,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:     make(map[string]*client),
		statClients: metrics.Counter("net.clients"),
		statSent:    metrics.Counter("net.sent"),
		statDropped: metrics.Counter("net.dropped"),
	}
}

// Routes registers /ws and /status on mux
func (h *Hub) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/status", h.ServeStatus)
}

// Handler returns a mux serving only the hub routes
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	h.Routes(mux)
	return mux
}

// ServeWS upgrades the request, sends the snapshot and streams batches until the peer goes away
// ?codec=json|msgpack overrides the configured codec
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	codec := r.URL.Query().Get("codec")
	if codec == "" {
		codec = h.config.Codec
	}
	if !ValidCodec(codec) {
		http.Error(w, "unknown codec", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("network: upgrade failed: %v", err)
		return
	}

	c := &client{
		id:    uuid.NewString(),
		codec: codec,
		conn:  conn,
		hub:   h,
		send:  make(chan outbound, h.config.SendQueueSize),
		done:  make(chan struct{}),
	}

	// Batches published after registration queue up behind the snapshot
	snapshot := h.source.AddSink(c)
	h.track(c)
	defer h.untrack(c)
	defer h.source.RemoveSink(c)
	defer c.close()

	msg := &Message{Type: MsgSnapshot, Client: c.id, Batches: make([]Batch, 0, len(snapshot))}
	for _, b := range snapshot {
		msg.Batches = append(msg.Batches, FromBatch(b))
	}
	data, kind, err := Encode(codec, msg)
	if err != nil {
		h.logger.Printf("network: encode snapshot for %s: %v", c.id, err)
		return
	}
	if err := c.write(kind, data); err != nil {
		h.logger.Printf("network: send snapshot to %s: %v", c.id, err)
		return
	}

	core.Go(c.writeLoop)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// ServeStatus writes the connected client ids and the metrics snapshot as JSON
func (h *Hub) ServeStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body := Status{Clients: h.Clients(), Metrics: []status.Metric{}}
	if h.metrics != nil {
		body.Metrics = h.metrics.Snapshot()
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Printf("network: write status: %v", err)
	}
}

// Clients returns the ids of connected clients, sorted
func (h *Hub) Clients() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

func (h *Hub) track(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.statClients.Add(1)
	h.logger.Printf("network: client %s connected (%s)", c.id, c.codec)
}

func (h *Hub) untrack(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()
	if ok {
		h.statClients.Add(-1)
		h.logger.Printf("network: client %s disconnected", c.id)
	}
}

type outbound struct {
	kind int
	data []byte
}

// client is one websocket subscriber
// Only writeLoop writes to conn once the snapshot is out
type client struct {
	id    string
	codec string
	conn  *websocket.Conn
	hub   *Hub

	send      chan outbound
	done      chan struct{}
	closeOnce sync.Once
}

// Publish implements scene.Sink; a full queue drops the batch
func (c *client) Publish(b scene.Batch) {
	select {
	case <-c.done:
		return
	default:
	}

	data, kind, err := Encode(c.codec, &Message{Type: MsgBatch, Batches: []Batch{FromBatch(b)}})
	if err != nil {
		c.hub.logger.Printf("network: encode batch for %s: %v", c.id, err)
		return
	}

	select {
	case c.send <- outbound{kind: kind, data: data}:
	default:
		c.hub.statDropped.Add(1)
	}
}

func (c *client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.write(msg.kind, msg.data); err != nil {
				c.close()
				return
			}
		}
	}
}

func (c *client) write(kind int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
	if err := c.conn.WriteMessage(kind, data); err != nil {
		return err
	}
	c.hub.statSent.Add(1)
	return nil
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}
