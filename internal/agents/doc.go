// Package agents provides persistence for agent records.
//
// An AgentRecord is the durable row behind a configured voice agent. During
// the creation wizard it stores only identity, name and status; the full
// denormalized configuration is written once, at publish, when status flips
// from draft to active.
//
// The Service interface is deliberately narrow so any backend with the same
// contract can stand in. SQLiteStore is the default implementation;
// MockService backs unit tests. WithEvents decorates a Service so record
// mutations fan out to Broadcaster subscribers (the dashboard list view's
// live updates).
package agents
