// Copyright 2026 The Go Pebble Authors
// SPDX-License-Identifier: Apache-2.0

// Package pebble provides Go types for the Pebble agent-communication
// protocol: a general agent-task messaging layer (messages, tasks,
// contexts, streaming updates) exchanged as JSON-RPC 2.0 requests and
// responses. The companion ap2 package layers payments authorization
// (intent, cart, and payment mandates) on top of the content model
// defined here.
//
// This package is the wire contract between independently implemented
// clients, agents, merchants, and payment processors. It defines the
// exact byte-level shape of every entity, decodes and encodes the
// kind-discriminated content unions, and binds every JSON-RPC method
// name to its parameter and result shapes. It performs no network I/O
// and holds no mutable state; all decode, encode, and dispatch
// operations are pure and safe for concurrent use.
package pebble

// ProtocolVersion is the current version of the Pebble protocol.
const ProtocolVersion = "0.2.0"
