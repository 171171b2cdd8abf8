package cue

import (
	"testing"
	"time"
)

func drain(t *testing.T, k Kind, vol float64) (int, [][2]float64) {
	t.Helper()
	s, err := Streamer(k, vol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var all [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		all = append(all, buf[:n]...)
		if !ok {
			break
		}
	}
	return len(all), all
}

func TestStreamer_LengthMatchesMelody(t *testing.T) {
	for _, k := range []Kind{Waypoint, Pop, NoPath, Sent, Rejected} {
		n, _ := drain(t, k, 1)
		if n != Length(k) {
			t.Fatalf("kind %d: expected %d samples, got %d", k, Length(k), n)
		}
	}
	if Length(Waypoint) != SampleRate.N(50*time.Millisecond) {
		t.Fatalf("expected waypoint cue of 50ms, got %d samples", Length(Waypoint))
	}
}

func TestStreamer_SamplesInRange(t *testing.T) {
	_, samples := drain(t, Sent, 0.5)
	peak := 0.0
	for i, s := range samples {
		if s[0] < -0.5001 || s[0] > 0.5001 {
			t.Fatalf("sample %d out of range: %f", i, s[0])
		}
		if s[0] > peak {
			peak = s[0]
		}
	}
	if peak < 0.4 {
		t.Fatalf("expected audible peak near 0.5, got %f", peak)
	}
}

func TestStreamer_RestIsSilent(t *testing.T) {
	_, samples := drain(t, NoPath, 1)
	start := SampleRate.N(60 * time.Millisecond)
	for i := start; i < start+SampleRate.N(30*time.Millisecond); i++ {
		if samples[i][0] != 0 {
			t.Fatalf("expected silence at sample %d, got %f", i, samples[i][0])
		}
	}
}

func TestStreamer_ZeroVolumeSilent(t *testing.T) {
	_, samples := drain(t, Waypoint, 0)
	for i, s := range samples {
		if s[0] != 0 || s[1] != 0 {
			t.Fatalf("expected silent sample %d, got %v", i, s)
		}
	}
}

func TestStreamer_UnknownKind(t *testing.T) {
	if _, err := Streamer(Kind(42), 1); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestPlayer_NilAndUnreadyAreSilent(t *testing.T) {
	var p *Player
	p.Play(Waypoint)
	p.Close()

	q := &Player{Volume: 1}
	q.Play(Sent)
	q.Close()
}
