/*
Package server implements the stdin/stdout IPC for film title and location suggestions.

Messages are MessagePack maps by default. With encoding = "json" in the config
each message is a single-line JSON object instead. Requests are answered in
order, one response per request, with timing info included.

# IPC

Each request carries an ID, an optional action and the query text:

	{"id": "req_001", "q": "vert"}

Query responses list the merged suggestions, each tagged with where it matched
("ts" for a title, "ls" for a filming location):

	{"id": "req_001", "query": "vert", "suggestions": [{"value": "Vertigo", "data": "ts"}], "c": 1, "t": 38}

t is the time spent in microseconds. Other actions:

	{"id": "r1", "action": "rebuild"}
	{"id": "r2", "action": "stats"}
	{"id": "r3", "action": "health"}

Failures come back as {"id", "e", "c"} with an HTTP-style code and never stop
the server.

Query responses are memoized per case-folded query in an LRU cache that is
emptied whenever a rebuild publishes new data.
*/
package server

import "github.com/bastiangx/reelserve/pkg/suggest"

// Request actions.
const (
	ActionQuery   = "query"
	ActionRebuild = "rebuild"
	ActionStats   = "stats"
	ActionHealth  = "health"
)

// Error codes sent in ErrorResponse.Code.
const (
	CodeBadRequest  = 400
	CodeUnknown     = 404
	CodeInternal    = 500
	CodeUnavailable = 503
)

// Request is the single inbound message shape. An empty Action means query.
type Request struct {
	ID     string `msgpack:"id" json:"id"`
	Action string `msgpack:"action,omitempty" json:"action,omitempty"`
	Query  string `msgpack:"q" json:"q"`
}

// QueryResponse answers a query.
type QueryResponse struct {
	ID          string               `msgpack:"id" json:"id"`
	Query       string               `msgpack:"query" json:"query"`
	Suggestions []suggest.Suggestion `msgpack:"suggestions" json:"suggestions"`
	Count       int                  `msgpack:"c" json:"c"`
	TimeTaken   int64                `msgpack:"t" json:"t"`
}

// StatusResponse answers rebuild, stats and health requests.
type StatusResponse struct {
	ID     string         `msgpack:"id" json:"id"`
	Status string         `msgpack:"status" json:"status"`
	Stats  map[string]int `msgpack:"stats,omitempty" json:"stats,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id" json:"id"`
	Error string `msgpack:"e" json:"e"`
	Code  int    `msgpack:"c" json:"c"`
}
