package domain

import "time"

// Seller is a merchant whose orders flow through the system.
type Seller struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Agent is a delivery courier.
type Agent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Active bool   `json:"active"`
}

// Branch is a physical pickup/dropoff location.
type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Zone string `json:"zone,omitempty"`
}

// LogEntry is one row of the recent-activity feed, produced by the backend.
type LogEntry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// AgentSummary aggregates one agent's workload, overall or for today only.
type AgentSummary struct {
	AgentID    string `json:"agent_id"`
	Total      int    `json:"total"`
	InProgress int    `json:"in_progress"`
	Completed  int    `json:"completed"`
	Rejected   int    `json:"rejected"`
}
