package validatex

import "testing"

type sample struct {
	JobID string `json:"job_id" validate:"required"`
	Size  int    `json:"page_size" validate:"omitempty,min=1,max=100"`
}

func TestStructReportsJSONNames(t *testing.T) {
	fields := Struct(sample{Size: 500})
	if fields["job_id"] != "required" {
		t.Fatalf("expected job_id required, got %v", fields)
	}
	if fields["page_size"] != "max=100" {
		t.Fatalf("expected page_size max, got %v", fields)
	}

	if got := Struct(sample{JobID: "j1"}); got != nil {
		t.Fatalf("expected valid, got %v", got)
	}
}
