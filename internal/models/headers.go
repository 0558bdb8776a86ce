package models

// Headers shared by the API server and the shopfront client.
const (
	// RequestIDHeader correlates a client request with the server log line.
	RequestIDHeader = "X-Request-Id"
	// CartSessionHeader carries the guest cart id before login.
	CartSessionHeader = "X-Cart-Session"
)
