// SPDX-License-Identifier: EPL-2.0

// Package generator implements the three generator variants — buffer,
// streaming, and noise — each producing one interleaved BlockSize-frame
// block of PCM at a declared channel count per call (spec §4.8).
package generator
