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

// Package ws serves dce.Router over WebSocket, via
// github.com/gorilla/websocket. Each text or binary message is one
// framed.Frame; a websocket message already carries its own boundary, the
// same way a UDP datagram does, so proto/framed's Handle is reused
// unmodified.
package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/idrunk/dce"
	"github.com/idrunk/dce/proto/framed"
)

// Adapter upgrades incoming HTTP connections to WebSocket and dispatches
// each message against router.
type Adapter struct {
	router   *dce.Router
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// New wraps router. Router.Ready must already have been called.
func New(router *dce.Router, log *slog.Logger) *Adapter {
	if log == nil {
		log = dce.NoopLogger()
	}
	return &Adapter{
		router: router,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

func (a *Adapter) Name() string { return "ws" }

// ServeHTTP implements http.Handler, upgrading the connection and then
// looping on incoming messages until the client disconnects.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Warn("ws: upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	for {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		reply := framed.Handle(ctx, a.router, raw)
		if reply == nil {
			// Unresponsive API: nothing to send back for this message.
			continue
		}
		if err := conn.WriteMessage(msgType, reply); err != nil {
			a.log.Warn("ws: write failed", "error", err)
			return
		}
	}
}
