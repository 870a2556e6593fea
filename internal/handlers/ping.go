package handlers

import (
	"fmt"
	"net/http"
)

// PingHandler is the liveness check mounted at the root path.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Multiplayer Quiz API is alive!")
}
