package services

import "sync"

// Presence tracks which users currently hold at least one open socket. Each
// user maps to the set of their connections, so closing one tab does not evict
// a session that is still live elsewhere.
type Presence struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewPresence() *Presence {
	return &Presence{clients: make(map[string]map[*Client]struct{})}
}

// Add registers a connection and reports whether the user just came online.
func (p *Presence) Add(c *Client) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, ok := p.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		p.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	return !ok
}

// Remove drops a connection and reports whether the user just went offline.
// Removing a connection that was never added is a no-op.
func (p *Presence) Remove(c *Client) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, ok := p.clients[c.UserID]
	if !ok {
		return false
	}
	if _, ok := set[c]; !ok {
		return false
	}
	delete(set, c)
	if len(set) == 0 {
		delete(p.clients, c.UserID)
		return true
	}
	return false
}

// IsOnline reports whether the user has at least one open connection.
func (p *Presence) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.clients[userID]) > 0
}

// OnlineIDs returns a snapshot of all currently connected user IDs.
func (p *Presence) OnlineIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]string, 0, len(p.clients))
	for id := range p.clients {
		ids = append(ids, id)
	}
	return ids
}

// ClientsOf returns a snapshot of the user's open connections.
func (p *Presence) ClientsOf(userID string) []*Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	set := p.clients[userID]
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	return clients
}

// AllClients returns a snapshot of every open connection.
func (p *Presence) AllClients() []*Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var clients []*Client
	for _, set := range p.clients {
		for c := range set {
			clients = append(clients, c)
		}
	}
	return clients
}
