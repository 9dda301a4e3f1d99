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

// Package tcp serves dce.Router over a persistent TCP connection. A frame's
// body may be arbitrary binary (MessagePack, say), so frames on the wire
// are delimited with a 4-byte big-endian length prefix rather than a
// newline — the framed.Frame text itself, once decoded, is free to contain
// embedded newlines in its own body.
package tcp

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"net"

	"github.com/idrunk/dce"
	"github.com/idrunk/dce/proto/framed"
)

// maxFrameSize bounds a single length-prefixed frame, guarding a
// connection against a bogus or hostile length header.
const maxFrameSize = 16 * 1024 * 1024

// Adapter listens for TCP connections and dispatches each length-prefixed
// frame it receives against router.
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

func (a *Adapter) Name() string { return "tcp" }

// Serve accepts connections on ln until it errors or ctx is canceled, each
// handled on its own goroutine, matching the teacher's one-goroutine-per-
// connection net.Listener loop.
func (a *Adapter) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go a.handleConn(ctx, conn)
	}
}

func (a *Adapter) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	for {
		raw, err := readFrame(conn)
		if err != nil {
			if err != io.EOF {
				a.log.Warn("tcp: read failed", "error", err)
			}
			return
		}
		reply := framed.Handle(ctx, a.router, raw)
		if reply == nil {
			// Unresponsive API: nothing to send back for this frame.
			continue
		}
		if err := writeFrame(conn, reply); err != nil {
			a.log.Warn("tcp: write failed", "error", err)
			return
		}
	}
}

func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameSize {
		return nil, io.ErrShortBuffer
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
