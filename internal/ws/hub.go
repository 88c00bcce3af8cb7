package ws

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one terminal or portal connection, scoped to a company.
type Client struct {
	Conn      Conn
	CompanyID string
	SubjectID string
}

// Envelope is a message addressed to a company, optionally narrowed to some subjects.
type Envelope struct {
	CompanyID  string
	SubjectIDs []string
	Message    []byte
}

// Hub owns the client registry. Only the Run goroutine touches it.
type Hub struct {
	clients    map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan Envelope
	done       chan struct{}
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan Envelope, 64),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "ws").Logger(),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				c.Conn.Close()
				delete(h.clients, c)
			}
			return

		case c := <-h.Register:
			h.clients[c] = struct{}{}
			h.log.Debug().Str("company_id", c.CompanyID).Str("subject_id", c.SubjectID).Msg("client connected")

		case c := <-h.Unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.Conn.Close()
			}

		case env := <-h.Broadcast:
			h.deliver(env)
		}
	}
}

func (h *Hub) deliver(env Envelope) {
	var subjects map[string]struct{}
	if len(env.SubjectIDs) > 0 {
		subjects = make(map[string]struct{}, len(env.SubjectIDs))
		for _, id := range env.SubjectIDs {
			subjects[id] = struct{}{}
		}
	}

	for c := range h.clients {
		if c.CompanyID != env.CompanyID {
			continue
		}
		if subjects != nil {
			if _, ok := subjects[c.SubjectID]; !ok {
				continue
			}
		}
		if err := c.Conn.WriteMessage(websocket.TextMessage, env.Message); err != nil {
			h.log.Debug().Err(err).Str("company_id", c.CompanyID).Msg("dropping client")
			c.Conn.Close()
			delete(h.clients, c)
		}
	}
}

// Join registers c unless the hub has stopped.
func (h *Hub) Join(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters c. It returns immediately once the hub has stopped.
func (h *Hub) Leave(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// SendToCompany queues message for every client of the company.
func (h *Hub) SendToCompany(companyID string, message []byte) {
	h.enqueue(Envelope{CompanyID: companyID, Message: message})
}

// SendToSubjects queues message for the listed users or employees of the company.
func (h *Hub) SendToSubjects(companyID string, subjectIDs []string, message []byte) {
	h.enqueue(Envelope{CompanyID: companyID, SubjectIDs: subjectIDs, Message: message})
}

// enqueue drops the message when the queue is full so a stalled hub never blocks callers.
func (h *Hub) enqueue(env Envelope) {
	select {
	case h.Broadcast <- env:
	default:
		h.log.Warn().Str("company_id", env.CompanyID).Msg("broadcast queue full, message dropped")
	}
}
