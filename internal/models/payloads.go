package models

// These structs define the JSON payloads exchanged with pages connected to
// the local agent and with the optional event sink.

// ReloadMessage is pushed to every connected page after a remote update.
type ReloadMessage struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Remote string `json:"remote"`
}

// HojasUpdatedEvent is the data of the CloudEvent emitted after a remote update.
type HojasUpdatedEvent struct {
	Collection string `json:"collection"`
	Count      int    `json:"count"`
}
