// SPDX-License-Identifier: EPL-2.0

package engine

// Property identifiers, matching spec §6's enumerated property set.
const (
	PropAzimuth = iota
	PropElevation
	PropGain
	PropPanningScalar
	PropPannerStrategy
	PropPosition
	PropOrientation
	PropDistanceModel
	PropDistanceRef
	PropDistanceMax
	PropRolloff
	PropClosenessBoost
	PropClosenessBoostDistance
	PropBuffer
	PropLooping
	PropNoiseType
	PropPitchBend
	PropPaused

	PropT60
	PropMeanFreePath
	PropLateReflectionsDelay
	PropLateReflectionsLFRolloff
	PropLateReflectionsLFReference
	PropLateReflectionsHFRolloff
	PropLateReflectionsHFReference
	PropLateReflectionsDiffusion
	PropLateReflectionsModulationDepth
	PropLateReflectionsModulationFrequency
	PropInputFilterEnabled
	PropInputFilterCutoff
)
