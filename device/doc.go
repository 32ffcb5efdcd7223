// SPDX-License-Identifier: EPL-2.0

// Package device connects an engine.Context's block-at-a-time rendering to
// an actual audio output. Backend is implemented twice: oto.go drives a
// real device through github.com/ebitengine/oto/v3, and headless.go is a
// caller-driven substitute for tests and offline rendering.
package device
