package candidateinfra

import (
	"strings"
	"testing"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
)

func TestBuildUpdateOrdersColumnsAndNullsClearedFields(t *testing.T) {
	query, args := buildUpdate("c1", candidate.ProfileUpdate{
		Region: kernel.Some("Hangzhou"),
		Phone:  kernel.Some(kernel.Phone("")),
		Age:    kernel.Some(22),
	})

	want := "SET age = $1, phone = $2, region = $3, updated_at = now() WHERE id = $4"
	if !strings.Contains(query, want) {
		t.Fatalf("unexpected query:\n%s", query)
	}
	if len(args) != 4 {
		t.Fatalf("expected 4 args, got %d", len(args))
	}
	if args[1] != nil {
		t.Fatalf("cleared phone must be NULL, got %v", args[1])
	}
	if args[3] != "c1" {
		t.Fatalf("id must be last, got %v", args[3])
	}
}
