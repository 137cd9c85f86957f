package survey

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func validSite() Site {
	return Site{
		Name:  "Riffle",
		Width: 2.0,
		Soundings: []Sounding{
			{Distance: 0, Depth: 0.2},
			{Distance: 1.0, Depth: 0.5},
			{Distance: 2.0, Depth: 0.1},
		},
	}
}

func TestSurveyValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Survey)
		wantErr string
	}{
		{"valid", func(*Survey) {}, ""},
		{"missing walk", func(s *Survey) { s.Walk = "" }, "walk id"},
		{"no sites", func(s *Survey) { s.Sites = nil }, "no sites"},
		{"too many sites", func(s *Survey) {
			for len(s.Sites) <= MaxSites {
				s.Sites = append(s.Sites, validSite())
			}
		}, "exceeds maximum"},
		{"zero width", func(s *Survey) { s.Sites[0].Width = 0 }, "width"},
		{"one sounding", func(s *Survey) { s.Sites[0].Soundings = s.Sites[0].Soundings[:1] }, "soundings"},
		{"distance beyond bank", func(s *Survey) { s.Sites[0].Soundings[1].Distance = 99 }, "distance"},
		{"depth too deep", func(s *Survey) { s.Sites[0].Soundings[1].Depth = 10.5 }, "depth"},
		{"negative depth", func(s *Survey) { s.Sites[0].Soundings[1].Depth = -1 }, "depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Survey{Walk: "walk-1", Sites: []Site{validSite()}}
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSiteStats(t *testing.T) {
	site := validSite()

	// Trapezoids: 1.0*(0.2+0.5)/2 + 1.0*(0.5+0.1)/2 = 0.35 + 0.30
	if got, want := site.Area(), 0.65; math.Abs(got-want) > 1e-9 {
		t.Errorf("Area() = %v, want %v", got, want)
	}
	if got, want := site.MeanDepth(), (0.2+0.5+0.1)/3; math.Abs(got-want) > 1e-9 {
		t.Errorf("MeanDepth() = %v, want %v", got, want)
	}
	if got, want := site.MaxSoundedDepth(), 0.5; got != want {
		t.Errorf("MaxSoundedDepth() = %v, want %v", got, want)
	}
}

func TestDefaultDistances(t *testing.T) {
	got := DefaultDistances(3.0, 4)
	want := []float64{0, 1, 2, 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DefaultDistances mismatch (-want +got):\n%s", diff)
	}
	if DefaultDistances(3.0, 0) != nil {
		t.Error("DefaultDistances(_, 0) should be nil")
	}
}

func TestWriteCSV(t *testing.T) {
	s := Survey{
		Walk: "walk-1",
		Sites: []Site{{
			Name:  "Upstream",
			Width: 2.0,
			Soundings: []Sounding{
				{Distance: 0, Depth: 0.2},
				{Distance: 2.0, Depth: 0.4},
			},
		}},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, s); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	want := "Site Number,Site Name,Point Number,Distance from Bank (m),Depth (m)\n" +
		"1,Upstream,1,0.00,0.20\n" +
		"1,Upstream,2,2.00,0.40\n"
	if got := buf.String(); got != want {
		t.Errorf("csv mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDemoIsValid(t *testing.T) {
	if err := Demo("walk-123").Validate(); err != nil {
		t.Fatalf("Demo survey fails validation: %v", err)
	}
}
