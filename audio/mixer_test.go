// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"testing"

	"github.com/ik5/voxmix/internal/audiotest"
)

func TestMixer_Additive(t *testing.T) {
	t.Parallel()

	a, _ := audiotest.Collect(audiotest.NewSineSource(8000, 2, 1000, 440), 2000)
	b, _ := audiotest.Collect(audiotest.NewSineSource(8000, 2, 1000, 97), 2000)

	m, err := NewMixer(
		audiotest.NewSineSource(8000, 2, 1000, 440),
		audiotest.NewSineSource(8000, 2, 1000, 97),
	)
	if err != nil {
		t.Fatalf("NewMixer() error = %v", err)
	}

	got, err := audiotest.Collect(m, 512)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 2000 {
		t.Fatalf("read %d samples, want 2000", len(got))
	}
	for i := range got {
		if want := a[i] + b[i]; got[i] != want {
			t.Fatalf("sample[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestMixer_EndedInputsContributeSilence(t *testing.T) {
	t.Parallel()

	short := audiotest.NewConstantSource(100, 1, 30, 0.25)
	long := audiotest.NewConstantSource(100, 1, 100, 0.5)

	m, err := NewMixer(short, long)
	if err != nil {
		t.Fatalf("NewMixer() error = %v", err)
	}

	got, err := audiotest.Collect(m, 16)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 100 {
		t.Fatalf("read %d samples, want 100", len(got))
	}
	for i, s := range got {
		want := float32(0.5)
		if i < 30 {
			want = 0.75
		}
		if s != want {
			t.Fatalf("sample[%d] = %v, want %v", i, s, want)
		}
	}

	n, err := m.ReadSamples(make([]float32, 16))
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() after end = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestMixer_ShortReadsDoNotDesync(t *testing.T) {
	t.Parallel()

	choppy := audiotest.NewRampSource(100, 1, 50, 1).WithMaxRead(3)
	steady := audiotest.NewRampSource(100, 1, 50, 100)

	m, err := NewMixer(choppy, steady)
	if err != nil {
		t.Fatalf("NewMixer() error = %v", err)
	}

	got, err := audiotest.Collect(m, 20)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	for i, s := range got {
		if want := float32(i) + float32(i)*100; s != want {
			t.Fatalf("sample[%d] = %v, want %v", i, s, want)
		}
	}
}

func TestMixer_NoClipping(t *testing.T) {
	t.Parallel()

	m, err := NewMixer(
		audiotest.NewConstantSource(100, 1, 10, 0.9),
		audiotest.NewConstantSource(100, 1, 10, 0.8),
	)
	if err != nil {
		t.Fatalf("NewMixer() error = %v", err)
	}

	buf := make([]float32, 10)
	if _, err := m.ReadSamples(buf); err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if buf[0] != float32(0.9)+float32(0.8) {
		t.Errorf("sample = %v, want unclipped %v", buf[0], float32(0.9)+float32(0.8))
	}
}

func TestNewMixer_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewMixer(); !errors.Is(err, ErrNoSources) {
		t.Errorf("NewMixer() error = %v, want ErrNoSources", err)
	}

	_, err := NewMixer(
		audiotest.NewSilentSource(44100, 2, 10),
		audiotest.NewSilentSource(48000, 2, 10),
	)
	if !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("NewMixer() error = %v, want ErrFormatMismatch", err)
	}

	_, err = NewMixer(
		audiotest.NewSilentSource(44100, 2, 10),
		audiotest.NewSilentSource(44100, 1, 10),
	)
	if !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("NewMixer() error = %v, want ErrFormatMismatch", err)
	}
}

func TestMixer_PropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("io failure")
	m, err := NewMixer(
		audiotest.NewConstantSource(100, 1, 100, 0.1),
		audiotest.NewFailingSource(audiotest.NewConstantSource(100, 1, 100, 0.1), 25, boom),
	)
	if err != nil {
		t.Fatalf("NewMixer() error = %v", err)
	}

	if _, err := audiotest.Collect(m, 10); !errors.Is(err, boom) {
		t.Errorf("Collect() error = %v, want %v", err, boom)
	}
}

func TestMixer_CloseClosesInputs(t *testing.T) {
	t.Parallel()

	a := audiotest.NewSilentSource(100, 1, 10)
	b := audiotest.NewSilentSource(100, 1, 10)
	m, err := NewMixer(a, b)
	if err != nil {
		t.Fatalf("NewMixer() error = %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !a.Closed() || !b.Closed() {
		t.Error("Close() did not close every input")
	}
}
