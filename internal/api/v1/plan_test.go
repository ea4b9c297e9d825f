package v1

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPlanRequest_Parse(t *testing.T) {
	tests := []struct {
		name    string
		req     PlanRequest
		wantErr bool
		checkFn func(*testing.T, PlanInputs) // Optional validation after Parse()
	}{
		{
			name: "empty request",
			req:  PlanRequest{},
			checkFn: func(t *testing.T, in PlanInputs) {
				if in.Checkpoint != nil || in.EventTimeStart != nil || in.EventTimeEnd != nil {
					t.Errorf("expected all timestamps nil, got %+v", in)
				}
			},
		},
		{
			name: "offset normalized to UTC",
			req:  PlanRequest{Checkpoint: "2024-09-05T10:56:00+02:00", FullRefresh: true},
			checkFn: func(t *testing.T, in PlanInputs) {
				want := time.Date(2024, 9, 5, 8, 56, 0, 0, time.UTC)
				if in.Checkpoint == nil || !in.Checkpoint.Equal(want) {
					t.Fatalf("checkpoint = %v, want %v", in.Checkpoint, want)
				}
				if in.Checkpoint.Location() != time.UTC {
					t.Errorf("checkpoint location = %v, want UTC", in.Checkpoint.Location())
				}
				if !in.FullRefresh {
					t.Error("full_refresh lost")
				}
			},
		},
		{
			name: "fractional seconds accepted",
			req:  PlanRequest{EventTimeEnd: "2024-10-01T00:00:00.250Z"},
			checkFn: func(t *testing.T, in PlanInputs) {
				if in.EventTimeEnd.Nanosecond() != 250000000 {
					t.Errorf("nanoseconds = %d", in.EventTimeEnd.Nanosecond())
				}
			},
		},
		{
			name:    "timestamp without zone rejected",
			req:     PlanRequest{EventTimeStart: "2024-09-05T08:56:00"},
			wantErr: true,
		},
		{
			name:    "garbage rejected",
			req:     PlanRequest{Checkpoint: "yesterday"},
			wantErr: true,
		},
		{
			name: "start after end rejected",
			req: PlanRequest{
				EventTimeStart: "2024-09-06T00:00:00Z",
				EventTimeEnd:   "2024-09-05T00:00:00Z",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := tt.req.Parse()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.checkFn != nil && err == nil {
				tt.checkFn(t, in)
			}
		})
	}
}

func TestPlanRequest_ModelNotInBody(t *testing.T) {
	var req PlanRequest
	if err := json.Unmarshal([]byte(`{"Model":"x","full_refresh":true}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.Model != "" {
		t.Errorf("model must come from the path, got %q", req.Model)
	}
	if !req.FullRefresh {
		t.Error("full_refresh not decoded")
	}
}

func TestPlanResponse_NullStartForFullScan(t *testing.T) {
	data, err := json.Marshal(PlanResponse{Model: "m", End: time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if v, ok := out["start"]; !ok || v != nil {
		t.Errorf("start = %v, want explicit null", v)
	}
}
