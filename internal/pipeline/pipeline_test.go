package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeStages implements Compressor, Shortlister and Enricher with a shared
// call log so step ordering can be asserted.
type fakeStages struct {
	calls []string

	compressErr error
	processErr  error
	enrichErr   error

	shortlisted bool
	force       bool
}

func (f *fakeStages) Compress(applicantID string) error {
	f.calls = append(f.calls, "compress:"+applicantID)
	return f.compressErr
}

func (f *fakeStages) CompressAll() (int, int) {
	f.calls = append(f.calls, "compress-all")
	return 3, 1
}

func (f *fakeStages) Process(applicantID string) (bool, error) {
	f.calls = append(f.calls, "shortlist:"+applicantID)
	return f.shortlisted, f.processErr
}

func (f *fakeStages) ProcessAll() (int, int) {
	f.calls = append(f.calls, "shortlist-all")
	return 3, 2
}

func (f *fakeStages) Enrich(ctx context.Context, applicantID string, force bool) error {
	f.calls = append(f.calls, "enrich:"+applicantID)
	f.force = force
	return f.enrichErr
}

func (f *fakeStages) EnrichAll(ctx context.Context, force bool) (int, int, int) {
	f.calls = append(f.calls, "enrich-all")
	f.force = force
	return 2, 1, 0
}

func TestRunStepOrder(t *testing.T) {
	fake := &fakeStages{shortlisted: true}
	p := New(fake, fake, fake)

	if err := p.Run(context.Background(), "recA", true); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	want := []string{"compress:recA", "shortlist:recA", "enrich:recA"}
	if len(fake.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fake.calls, want)
	}
	for i, w := range want {
		if fake.calls[i] != w {
			t.Errorf("calls[%d] = %q, want %q", i, fake.calls[i], w)
		}
	}
	if !fake.force {
		t.Error("force flag was not forwarded to the enricher")
	}
}

func TestRunAbortsOnFailure(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		configure func(f *fakeStages)
		wantCalls int
		wantMsg   string
	}{
		{"compression", func(f *fakeStages) { f.compressErr = boom }, 1, "compression failed"},
		{"shortlist", func(f *fakeStages) { f.processErr = boom }, 2, "shortlist evaluation failed"},
		{"llm", func(f *fakeStages) { f.enrichErr = boom }, 3, "llm evaluation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeStages{}
			tt.configure(fake)
			p := New(fake, fake, fake)

			err := p.Run(context.Background(), "recA", false)
			if !errors.Is(err, boom) {
				t.Fatalf("Run() = %v, want wrapped %v", err, boom)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
			if len(fake.calls) != tt.wantCalls {
				t.Errorf("ran steps %v, want %d before aborting", fake.calls, tt.wantCalls)
			}
		})
	}
}

func TestRunAllStageOrder(t *testing.T) {
	fake := &fakeStages{}
	p := New(fake, fake, fake)

	p.RunAll(context.Background(), true)

	want := []string{"compress-all", "shortlist-all", "enrich-all"}
	if len(fake.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fake.calls, want)
	}
	for i, w := range want {
		if fake.calls[i] != w {
			t.Errorf("calls[%d] = %q, want %q", i, fake.calls[i], w)
		}
	}
	if !fake.force {
		t.Error("force flag was not forwarded to the enricher")
	}
}
