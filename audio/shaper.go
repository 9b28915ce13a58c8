package audio

// Reducing the volume by this much or more mutes the output.
const silenceReduce = 30

// Shape runs a raw sample through wave folding, volume reduction and stutter
// attenuation, in that order. Center (128) is silence and maps to itself.
func Shape(raw, distortion, volumeReduce, volumeMod uint8) uint8 {
	if volumeReduce >= silenceReduce || raw == Center {
		return Center
	}
	v := int(raw)

	// Fold away from the center. Above the center the sample saturates at 255-d,
	// below it reflects off zero instead of wrapping around.
	if d := int(distortion); d > 0 {
		if v > Center {
			if v < 255-d {
				v += d
			} else {
				v = 255 - d
			}
		} else {
			if v > d {
				v -= d
			} else {
				v = d - v
			}
		}
	}

	if r := int(volumeReduce); r > 0 {
		if v > Center {
			v -= r
			if v < Center {
				v = Center
			}
		} else {
			v += r
			if v > Center {
				v = Center
			}
		}
	}

	if volumeMod > 0 && v != Center {
		if v > Center {
			v = (v-Center)>>volumeMod + Center
		} else {
			v = Center - (Center-v)>>volumeMod
		}
	}
	return uint8(v)
}
