// SPDX-License-Identifier: EPL-2.0

package engine

// Fundamental constants, fixed at build (spec §3).
const (
	SampleRate        = 44100
	BlockSize         = 256
	MaxChannels       = 16
	SampleAlignment   = 16
	CrossfadeSamples  = 64
	HRTFMaxITD        = 64
	PannerMaxLanes    = 4
	MaxCommandPayload = 128

	PropertyRingCapacity = 1024
	commandRingCapacity  = 2048
	deletionRingCapacity = 4096

	commandBudgetPerBlock  = 64
	deletionBudgetPerBlock = 64
)
