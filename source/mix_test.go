// SPDX-License-Identifier: EPL-2.0

package source

import "testing"

// spec §4.9: a source wider than the destination folds every channel in at
// equal weight rather than dropping the channels past dstChannels.
func TestMixChannels_WiderSourceFoldsAllChannelsIntoDestination(t *testing.T) {
	t.Parallel()

	src := []float32{1, 2, 3, 4} // one frame, 4 channels
	dst := make([]float32, 2)    // one frame, 2 channels

	mixChannels(dst, src, 4, 2)

	// channel 0 folds with channel 2, channel 1 folds with channel 3.
	want := []float32{1 + 3, 2 + 4}
	if dst[0] != want[0] || dst[1] != want[1] {
		t.Fatalf("dst = %v, want %v", dst, want)
	}
}

func TestMixChannels_EqualChannelsSumDirectly(t *testing.T) {
	t.Parallel()

	src := []float32{1, 2}
	dst := []float32{10, 20}

	mixChannels(dst, src, 2, 2)

	if dst[0] != 11 || dst[1] != 22 {
		t.Fatalf("dst = %v, want [11 22]", dst)
	}
}

func TestMixChannels_MonoBroadcastsToEveryDestinationChannel(t *testing.T) {
	t.Parallel()

	src := []float32{5}
	dst := make([]float32, 4)

	mixChannels(dst, src, 1, 4)

	for i, v := range dst {
		if v != 5 {
			t.Fatalf("dst[%d] = %v, want 5", i, v)
		}
	}
}

func TestMixChannels_NToMonoAverages(t *testing.T) {
	t.Parallel()

	src := []float32{1, 2, 3, 4}
	dst := make([]float32, 1)

	mixChannels(dst, src, 4, 1)

	if dst[0] != 2.5 {
		t.Fatalf("dst[0] = %v, want 2.5", dst[0])
	}
}
