// Package orders serves the order endpoints of the shop.
package orders

import "net/http"

// Ping
//
// Args:
// Return:
// status:string,service status
// Example:
// pong
func Ping(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("pong"))
}

// Summary has documentation but not in the structured layout.
func Summary(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
