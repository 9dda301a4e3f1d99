// Copyright 2025 The DCE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ws_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/idrunk/dce"
	"github.com/idrunk/dce/proto/framed"
	"github.com/idrunk/dce/proto/ws"
)

func newTestRouter(t *testing.T) *dce.Router {
	t.Helper()
	router := dce.New()
	require.NoError(t, router.Register(dce.NewAPI("echo", "echo", func(ctx *dce.Context) (*dce.Response, error) {
		return &dce.Response{Status: 200, Body: map[string]string{"ok": "yes"}}, nil
	})))
	require.NoError(t, router.Ready())
	return router
}

func TestAdapterServeHTTPDispatchesMessage(t *testing.T) {
	server := httptest.NewServer(ws.New(newTestRouter(t), nil))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	req := framed.Frame{Path: "echo", Headers: map[string]string{}}
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, framed.Encode(&req)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	f, err := framed.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "", f.ID)
	require.Contains(t, string(f.Body), "yes")
}
