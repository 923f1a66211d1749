package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"adforge/internal/domain"
	"adforge/internal/pipeline"
)

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/runs" + query
}

func TestWatchStreamsRunEventsUntilComplete(t *testing.T) {
	srv := newTestServer(t)

	// Drive the wizard to completion first; the run's buffered channel
	// keeps every event for late watchers.
	resp := postJSON(t, srv.URL+"/api/runs", domain.Brief{
		Product:        "Energy drink",
		Audience:       "gym-goers",
		Platform:       "instagram",
		VariationCount: 1,
		AspectRatio:    "1:1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	started := decode[startRunResponse](t, resp)

	resp = postJSON(t, srv.URL+"/api/runs/"+started.Run.ID+"/direct", struct{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = postJSON(t, srv.URL+"/api/runs/"+started.Run.ID+"/produce", struct{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?run_id="+started.Run.ID), nil)
	require.NoError(t, err)
	defer conn.Close()

	seen := make(map[pipeline.EventType]bool)
	var last pipeline.Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var ev pipeline.Event
		require.NoError(t, conn.ReadJSON(&ev))
		require.Equal(t, started.Run.ID, ev.RunID)
		seen[ev.Type] = true
		last = ev
		if ev.Type == pipeline.EventComplete {
			break
		}
	}
	require.True(t, seen[pipeline.EventLog], "progress lines are streamed")
	require.True(t, seen[pipeline.EventStep], "step transitions are streamed")
	require.NotEmpty(t, last.Message, "completion event carries the campaign ID")

	// The server closes the connection after the completion event.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
}

func TestWatchRejectsUnknownRun(t *testing.T) {
	srv := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?run_id=nope"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
