package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampMarshalJSON(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "whole second", in: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC), want: `"2026-03-14T09:26:53.000Z"`},
		{name: "milliseconds kept", in: time.Date(2026, 3, 14, 9, 26, 53, 120_000_000, time.UTC), want: `"2026-03-14T09:26:53.120Z"`},
		{name: "converted to UTC", in: time.Date(2026, 3, 14, 16, 26, 53, 0, jakarta), want: `"2026-03-14T09:26:53.000Z"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(Timestamp{Time: tt.in})
			if err != nil {
				t.Fatalf("Marshal() unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestProfileJSON(t *testing.T) {
	p := Profile{
		ID:        7,
		Name:      "Ana",
		Email:     "ana@x.com",
		CreatedAt: Timestamp{Time: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)},
	}

	got, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	want := `{"id":7,"nama":"Ana","email":"ana@x.com","created_at":"2026-03-14T09:26:53.000Z"}`
	if string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}

	var back Profile
	if err := json.Unmarshal(got, &back); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if !back.CreatedAt.Equal(p.CreatedAt.Time) {
		t.Errorf("round trip CreatedAt = %v, want %v", back.CreatedAt, p.CreatedAt)
	}
}
