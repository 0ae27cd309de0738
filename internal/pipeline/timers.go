package pipeline

import "github.com/aircart/api/internal/wave"

// CuePoints are the five broadcast cue markers in milliseconds.
type CuePoints struct {
	AudioStart int64
	AudioEnd   int64
	IntroStart int64
	IntroEnd   int64
	Segue      int64
}

// Timer name aliases per cue point, in lookup order. Different automation
// systems write different names for the same marker; the first match wins.
var (
	audioStartAliases = []string{"AUD1", "AUDs"}
	audioEndAliases   = []string{"AUD2", "AUDe"}
	introStartAliases = []string{"INT1", "INTs"}
	introEndAliases   = []string{"INT ", "INT2", "INTe"}
	segueAliases      = []string{"SEG1", "SEGs", "SEG "}
)

// ExtractCues resolves the five cue points from a cart chunk's timer list.
// Offsets are sample positions and convert to milliseconds with integer
// division. A cue with no matching timer stays 0; this is never an error.
func ExtractCues(cart *wave.CartChunk, sampleRate uint32) CuePoints {
	return CuePoints{
		AudioStart: cueMillis(cart, audioStartAliases, sampleRate),
		AudioEnd:   cueMillis(cart, audioEndAliases, sampleRate),
		IntroStart: cueMillis(cart, introStartAliases, sampleRate),
		IntroEnd:   cueMillis(cart, introEndAliases, sampleRate),
		Segue:      cueMillis(cart, segueAliases, sampleRate),
	}
}

func cueMillis(cart *wave.CartChunk, aliases []string, sampleRate uint32) int64 {
	for _, name := range aliases {
		if t, ok := cart.Timer(name); ok {
			return int64(t.Offset) * 1000 / int64(sampleRate)
		}
	}
	return 0
}
