package pipeline

import (
	"testing"

	"github.com/aircart/api/internal/wave"
)

func cartWithTimers(timers ...wave.Timer) *wave.CartChunk {
	return &wave.CartChunk{Version: "0101", Timers: timers}
}

func TestExtractCuesBroadcastScenario(t *testing.T) {
	// 44.1kHz cart: audio starts immediately, the intro ends at 29.35s and
	// the segue fires at 22.606s.
	cart := cartWithTimers(
		wave.Timer{Name: "AUD1", Offset: 0},
		wave.Timer{Name: "INTe", Offset: 1294335},
		wave.Timer{Name: "SEG1", Offset: 996925},
	)

	cues := ExtractCues(cart, 44100)
	if cues.AudioStart != 0 {
		t.Errorf("audio start = %d, want 0", cues.AudioStart)
	}
	if cues.IntroEnd != 29350 {
		t.Errorf("intro end = %d, want 29350", cues.IntroEnd)
	}
	if cues.Segue != 22606 {
		t.Errorf("segue = %d, want 22606", cues.Segue)
	}
	if cues.AudioEnd != 0 || cues.IntroStart != 0 {
		t.Errorf("unset cues must stay zero: %+v", cues)
	}
}

func TestExtractCuesMillisecondConversion(t *testing.T) {
	cases := []struct {
		rate   uint32
		offset uint32
		ms     int64
	}{
		{44100, 44100, 1000},
		{48000, 24000, 500},
		{44100, 22050, 500},
		{44100, 1, 0}, // sub-millisecond offsets truncate
		{22050, 33075, 1500},
	}
	for _, tc := range cases {
		cart := cartWithTimers(wave.Timer{Name: "AUD1", Offset: tc.offset})
		if got := ExtractCues(cart, tc.rate).AudioStart; got != tc.ms {
			t.Errorf("offset %d @ %dHz = %dms, want %d", tc.offset, tc.rate, got, tc.ms)
		}
	}
}

func TestExtractCuesAliasOrder(t *testing.T) {
	// "INT " outranks "INTe" when both are present
	cart := cartWithTimers(
		wave.Timer{Name: "INTe", Offset: 88200},
		wave.Timer{Name: "INT ", Offset: 44100},
	)
	if got := ExtractCues(cart, 44100).IntroEnd; got != 1000 {
		t.Errorf("intro end = %d, want the \"INT \" value 1000", got)
	}

	cart = cartWithTimers(
		wave.Timer{Name: "SEG ", Offset: 88200},
		wave.Timer{Name: "SEGs", Offset: 44100},
		wave.Timer{Name: "SEG1", Offset: 22050},
	)
	if got := ExtractCues(cart, 44100).Segue; got != 500 {
		t.Errorf("segue = %d, want the SEG1 value 500", got)
	}
}

func TestExtractCuesAllAliases(t *testing.T) {
	aliases := map[string]func(CuePoints) int64{
		"AUD1": func(c CuePoints) int64 { return c.AudioStart },
		"AUDs": func(c CuePoints) int64 { return c.AudioStart },
		"AUD2": func(c CuePoints) int64 { return c.AudioEnd },
		"AUDe": func(c CuePoints) int64 { return c.AudioEnd },
		"INT1": func(c CuePoints) int64 { return c.IntroStart },
		"INTs": func(c CuePoints) int64 { return c.IntroStart },
		"INT ": func(c CuePoints) int64 { return c.IntroEnd },
		"INT2": func(c CuePoints) int64 { return c.IntroEnd },
		"INTe": func(c CuePoints) int64 { return c.IntroEnd },
		"SEG1": func(c CuePoints) int64 { return c.Segue },
		"SEGs": func(c CuePoints) int64 { return c.Segue },
		"SEG ": func(c CuePoints) int64 { return c.Segue },
	}
	for name, pick := range aliases {
		cart := cartWithTimers(wave.Timer{Name: name, Offset: 44100})
		if got := pick(ExtractCues(cart, 44100)); got != 1000 {
			t.Errorf("alias %q: got %d, want 1000", name, got)
		}
	}
}

func TestExtractCuesUnknownTimersIgnored(t *testing.T) {
	cart := cartWithTimers(
		wave.Timer{Name: "MRK1", Offset: 44100},
		wave.Timer{Name: "EOD ", Offset: 88200},
	)
	if cues := ExtractCues(cart, 44100); cues != (CuePoints{}) {
		t.Errorf("unknown timers must not set cues: %+v", cues)
	}
}
