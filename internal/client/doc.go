// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the sync daemon runtime.
//
// It wires local storage, the remote change feed, the message broadcast and
// the background workers into a single process lifecycle, and composes the
// UI-facing [models.AppState] from the broadcast and the orchestrator states.
package client
