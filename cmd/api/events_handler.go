package main

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// eventsHandler streams bus events to the client as server-sent events so
// storefront pages can refresh stock and order status without polling.
// @Summary Event stream
// @Produce text/event-stream
// @Success 200
// @Security ApiKeyAuth
// @Router /events [get]
func eventsHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errBody{Error: "internal"})
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	events := eventBus.Subscribe(16)
	defer eventBus.Unsubscribe(events)
	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Topic, data)
			flusher.Flush()
		}
	}
}
