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

// Package udp serves dce.Router over UDP datagrams. A datagram is already
// a discrete message boundary, so unlike proto/tcp no additional framing
// is needed: one datagram in, one framed.Frame decoded, one datagram out.
package udp

import (
	"context"
	"log/slog"
	"net"

	"github.com/idrunk/dce"
	"github.com/idrunk/dce/proto/framed"
)

const maxDatagramSize = 64 * 1024

// Adapter dispatches each UDP datagram it receives against router.
type Adapter struct {
	router *dce.Router
	log    *slog.Logger
}

// New wraps router. Router.Ready must already have been called.
func New(router *dce.Router, log *slog.Logger) *Adapter {
	if log == nil {
		log = dce.NoopLogger()
	}
	return &Adapter{router: router, log: log}
}

func (a *Adapter) Name() string { return "udp" }

// Serve reads datagrams from conn until ctx is canceled or a read fails.
func (a *Adapter) Serve(ctx context.Context, conn net.PacketConn) error {
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()
	buf := make([]byte, maxDatagramSize)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		raw := append([]byte(nil), buf[:n]...)
		go func() {
			reply := framed.Handle(ctx, a.router, raw)
			if reply == nil {
				// Unresponsive API: nothing to send back for this datagram.
				return
			}
			if _, err := conn.WriteTo(reply, addr); err != nil {
				a.log.Warn("udp: write failed", "error", err)
			}
		}()
	}
}
