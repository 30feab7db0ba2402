package candidatesrv

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/Abraxas-365/hirehub/pkg/errx"
	"github.com/Abraxas-365/hirehub/pkg/fsx/fsxmem"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidateinfra"
)

type fakeRefresher struct {
	mu    sync.Mutex
	calls []kernel.CandidateID
}

func (f *fakeRefresher) RefreshCandidate(ctx context.Context, id kernel.CandidateID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	return nil
}

func newService(t *testing.T) (*CandidateService, *fsxmem.MemoryFileSystem, *fakeRefresher) {
	t.Helper()
	fs := fsxmem.New()
	refresher := &fakeRefresher{}
	return NewCandidateService(candidateinfra.NewMemoryCandidateRepository(), fs, refresher), fs, refresher
}

func TestCreateProfileMigratesResume(t *testing.T) {
	ctx := context.Background()
	svc, fs, _ := newService(t)
	_ = fs.WriteFile(ctx, "tmp/upload-1.pdf", []byte("cv"))

	c, err := svc.CreateProfile(ctx, "open-1", candidate.RegisterRequest{
		Name:             "Wang",
		TempResumeFileID: "tmp/upload-1.pdf",
	})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	want := "resumes/" + c.ID.String() + "/upload-1.pdf"
	if c.ResumeFileID.String() != want {
		t.Fatalf("expected %s, got %s", want, c.ResumeFileID)
	}
	if ok, _ := fs.Exists(ctx, "tmp/upload-1.pdf"); ok {
		t.Fatal("temporary file should be deleted after migration")
	}
}

func TestCreateProfileKeepsTempResumeOnFailure(t *testing.T) {
	ctx := context.Background()
	svc, fs, _ := newService(t)
	fs.FailCopy = true
	_ = fs.WriteFile(ctx, "tmp/upload-2.pdf", []byte("cv"))

	c, err := svc.CreateProfile(ctx, "open-2", candidate.RegisterRequest{
		Name:             "Zhao",
		TempResumeFileID: "tmp/upload-2.pdf",
	})
	if err != nil {
		t.Fatalf("registration must not fail on migration error: %v", err)
	}
	if c.ResumeFileID != "tmp/upload-2.pdf" {
		t.Fatalf("expected old reference, got %s", c.ResumeFileID)
	}
	if ok, _ := fs.Exists(ctx, "tmp/upload-2.pdf"); !ok {
		t.Fatal("temporary file must survive a failed migration")
	}
}

func TestCreateProfileRejectsDuplicateIdentity(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	if _, err := svc.CreateProfile(ctx, "open-3", candidate.RegisterRequest{Name: "A"}); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	_, err := svc.CreateProfile(ctx, "open-3", candidate.RegisterRequest{Name: "B"})
	if !errx.IsCode(err, candidate.CodeCandidateAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestUpdateProfileRefreshesOnlySnapshotChanges(t *testing.T) {
	ctx := context.Background()
	svc, _, refresher := newService(t)

	c, err := svc.CreateProfile(ctx, "open-4", candidate.RegisterRequest{Name: "Sun", Phone: "13800138000"})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, c.ID, candidate.ProfileUpdate{AvatarURL: kernel.Some("https://cdn/x.png")}); err != nil {
		t.Fatalf("avatar update: %v", err)
	}
	if len(refresher.calls) != 0 {
		t.Fatalf("avatar change must not refresh views, got %v", refresher.calls)
	}

	updated, err := svc.UpdateProfile(ctx, c.ID, candidate.ProfileUpdate{Phone: kernel.Some(kernel.Phone(""))})
	if err != nil {
		t.Fatalf("phone clear: %v", err)
	}
	if updated.Phone != "" {
		t.Fatalf("phone should be cleared, got %s", updated.Phone)
	}
	if len(refresher.calls) != 1 || refresher.calls[0] != c.ID {
		t.Fatalf("expected one refresh for %s, got %v", c.ID, refresher.calls)
	}

	if _, err := svc.UpdateProfile(ctx, c.ID, candidate.ProfileUpdate{}); !errx.IsCode(err, candidate.CodeEmptyUpdate) {
		t.Fatalf("expected empty update error, got %v", err)
	}
}

func TestUploadResume(t *testing.T) {
	ctx := context.Background()
	svc, fs, refresher := newService(t)

	if _, err := svc.UploadTempResume(ctx, "cv.exe", 10, strings.NewReader("x")); !errx.IsCode(err, candidate.CodeInvalidResume) {
		t.Fatalf("expected invalid résumé for .exe, got %v", err)
	}
	if _, err := svc.UploadTempResume(ctx, "cv.pdf", MaxResumeSize+1, strings.NewReader("x")); !errx.IsCode(err, candidate.CodeInvalidResume) {
		t.Fatalf("expected invalid résumé for oversize file, got %v", err)
	}

	temp, err := svc.UploadTempResume(ctx, "CV.PDF", 2, strings.NewReader("cv"))
	if err != nil {
		t.Fatalf("UploadTempResume: %v", err)
	}
	if !strings.HasPrefix(temp.String(), "tmp/") || !strings.HasSuffix(temp.String(), ".pdf") {
		t.Fatalf("unexpected temp path %s", temp)
	}

	c, _ := svc.CreateProfile(ctx, "open-5", candidate.RegisterRequest{Name: "Li"})
	updated, err := svc.UploadResume(ctx, c.ID, "new.png", 3, strings.NewReader("png"))
	if err != nil {
		t.Fatalf("UploadResume: %v", err)
	}
	if !strings.HasPrefix(updated.ResumeFileID.String(), "resumes/"+c.ID.String()+"/") {
		t.Fatalf("résumé should live in the candidate folder, got %s", updated.ResumeFileID)
	}
	if ok, _ := fs.Exists(ctx, updated.ResumeFileID.String()); !ok {
		t.Fatal("uploaded résumé missing from storage")
	}
	if len(refresher.calls) != 1 {
		t.Fatalf("résumé is part of the snapshot, expected a refresh, got %v", refresher.calls)
	}
}
