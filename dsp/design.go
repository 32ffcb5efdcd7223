package dsp

import "math"

// DesignLowpass, DesignHighpass and DesignBandpass implement the RBJ
// "Audio EQ Cookbook" biquad formulas. freq and sampleRate are in Hz; q is
// the filter Q (lowpass/highpass) or bandwidth-equivalent Q (bandpass).
// Coefficient design runs on the calling (user) thread; only the resulting
// Coefficients cross into the audio thread via Biquad.Configure.
func DesignLowpass(sampleRate, freq, q float64) Coefficients {
	w0, alpha := cookbookParams(sampleRate, freq, q)
	cosW0 := math.Cos(w0)

	b0 := (1 - cosW0) / 2
	b1 := 1 - cosW0
	b2 := (1 - cosW0) / 2
	a0 := 1 + alpha
	a1 := -2 * cosW0
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

func DesignHighpass(sampleRate, freq, q float64) Coefficients {
	w0, alpha := cookbookParams(sampleRate, freq, q)
	cosW0 := math.Cos(w0)

	b0 := (1 + cosW0) / 2
	b1 := -(1 + cosW0)
	b2 := (1 + cosW0) / 2
	a0 := 1 + alpha
	a1 := -2 * cosW0
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// DesignBandpass takes bandwidth in octaves rather than Q, matching the
// cookbook's constant-skirt-gain bandpass formula.
func DesignBandpass(sampleRate, freq, bandwidthOctaves float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	sinW0 := math.Sin(w0)
	cosW0 := math.Cos(w0)
	alpha := sinW0 * math.Sinh(math.Ln2/2*bandwidthOctaves*w0/sinW0)

	b0 := alpha
	b1 := 0.0
	b2 := -alpha
	a0 := 1 + alpha
	a1 := -2 * cosW0
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

func cookbookParams(sampleRate, freq, q float64) (w0, alpha float64) {
	w0 = 2 * math.Pi * freq / sampleRate
	alpha = math.Sin(w0) / (2 * q)
	return w0, alpha
}

func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	return Coefficients{
		B0:   b0 / a0,
		B1:   b1 / a0,
		B2:   b2 / a0,
		A1:   a1 / a0,
		A2:   a2 / a0,
		Gain: 1,
	}
}
