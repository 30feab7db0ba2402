package candidatesrv

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/errx"
	"github.com/Abraxas-365/hirehub/pkg/fsx"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
	"github.com/google/uuid"
)

// ViewRefresher re-projects application views after a profile edit
type ViewRefresher interface {
	RefreshCandidate(ctx context.Context, candidateID kernel.CandidateID) error
}

// CandidateService provides business operations for candidates
type CandidateService struct {
	candidateRepo candidate.Repository
	fileSystem    fsx.FileSystem
	refresher     ViewRefresher
	now           func() time.Time
}

// NewCandidateService creates a new instance of the candidate service
func NewCandidateService(
	candidateRepo candidate.Repository,
	fileSystem fsx.FileSystem,
	refresher ViewRefresher,
) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
		fileSystem:    fileSystem,
		refresher:     refresher,
		now:           time.Now,
	}
}

// SetViewRefresher wires the refresher after construction, since the
// projector itself depends on the candidate repository
func (s *CandidateService) SetViewRefresher(refresher ViewRefresher) {
	s.refresher = refresher
}

// CreateProfile registers a new candidate for an identity
func (s *CandidateService) CreateProfile(ctx context.Context, openID kernel.OpenID, req candidate.RegisterRequest) (*candidate.Candidate, error) {
	if req.Phone != "" && !req.Phone.IsValid() {
		return nil, candidate.ErrInvalidPhone().WithDetail("phone", req.Phone)
	}
	if !req.Education.IsValid() {
		return nil, candidate.ErrValidationFailed().WithDetail("education", req.Education)
	}

	if existing, err := s.candidateRepo.GetByOpenID(ctx, openID); err == nil && existing != nil {
		return nil, candidate.ErrCandidateAlreadyExists().WithDetail("candidate_id", existing.ID.String())
	} else if err != nil && !errx.IsCode(err, candidate.CodeCandidateNotFound) {
		return nil, err
	}

	now := s.now()
	newCandidate := &candidate.Candidate{
		ID:             kernel.NewCandidateID(uuid.NewString()),
		OpenID:         openID,
		Name:           req.Name,
		AvatarURL:      req.AvatarURL,
		Phone:          req.Phone,
		Gender:         req.Gender,
		Age:            req.Age,
		Region:         req.Region,
		Education:      req.Education,
		IsFullTime:     req.IsFullTime,
		SchoolName:     req.SchoolName,
		Major:          req.Major,
		GraduationDate: req.GraduationDate,
		LastLoginAt:    &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !req.TempResumeFileID.IsEmpty() {
		newCandidate.ResumeFileID = s.migrateResume(ctx, newCandidate.ID, req.TempResumeFileID)
	}

	if err := s.candidateRepo.Create(ctx, newCandidate); err != nil {
		return nil, err
	}

	logx.Infof("Registered candidate %s", newCandidate.ID)
	return newCandidate, nil
}

// MaxResumeSize caps a résumé upload
const MaxResumeSize = 10 * 1024 * 1024

var resumeExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadTempResume stores a résumé uploaded before registration under tmp/.
// Register moves it into the candidate's folder.
func (s *CandidateService) UploadTempResume(ctx context.Context, fileName string, size int64, r io.Reader) (kernel.FileID, error) {
	ext, err := resumeExtension(fileName, size)
	if err != nil {
		return "", err
	}

	dst := s.fileSystem.Join("tmp", uuid.NewString()+ext)
	if err := s.fileSystem.WriteFileStream(ctx, dst, r); err != nil {
		return "", candidate.ErrResumeUploadFailed(err)
	}
	return kernel.FileID(dst), nil
}

// UploadResume stores a résumé for a registered candidate and points the
// profile at it
func (s *CandidateService) UploadResume(ctx context.Context, candidateID kernel.CandidateID, fileName string, size int64, r io.Reader) (*candidate.Candidate, error) {
	ext, err := resumeExtension(fileName, size)
	if err != nil {
		return nil, err
	}

	dst := s.ResumePath(candidateID, uuid.NewString()+ext)
	if err := s.fileSystem.WriteFileStream(ctx, dst, r); err != nil {
		return nil, candidate.ErrResumeUploadFailed(err)
	}

	return s.UpdateProfile(ctx, candidateID, candidate.ProfileUpdate{
		ResumeFileID: kernel.Some(kernel.FileID(dst)),
	})
}

// OpenResume streams a candidate's résumé; the caller closes the reader
func (s *CandidateService) OpenResume(ctx context.Context, candidateID kernel.CandidateID) (io.ReadCloser, string, error) {
	c, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, "", err
	}
	if !c.HasResume() {
		return nil, "", candidate.ErrResumeNotFound()
	}

	r, err := s.fileSystem.ReadFileStream(ctx, c.ResumeFileID.String())
	if err != nil {
		if errors.Is(err, fsx.ErrNotExist) {
			return nil, "", candidate.ErrResumeNotFound().WithDetail("file_id", c.ResumeFileID.String())
		}
		return nil, "", candidate.ErrResumeUploadFailed(err)
	}
	return r, path.Base(c.ResumeFileID.String()), nil
}

func resumeExtension(fileName string, size int64) (string, error) {
	ext := strings.ToLower(path.Ext(fileName))
	if !resumeExtensions[ext] {
		return "", candidate.ErrInvalidResume().WithDetail("file_name", fileName)
	}
	if size <= 0 || size > MaxResumeSize {
		return "", candidate.ErrInvalidResume().WithDetail("size", size)
	}
	return ext, nil
}

// ResumePath is where a candidate's résumé lives once it is owned by them
func (s *CandidateService) ResumePath(candidateID kernel.CandidateID, fileName string) string {
	return s.fileSystem.Join("resumes", candidateID.String(), fileName)
}

// migrateResume moves a temporary upload into the candidate's folder.
// Best effort: on failure the temporary reference is kept.
func (s *CandidateService) migrateResume(ctx context.Context, candidateID kernel.CandidateID, temp kernel.FileID) kernel.FileID {
	if s.fileSystem == nil {
		return temp
	}

	owned := s.ResumePath(candidateID, "") + "/"
	if strings.HasPrefix(temp.String(), owned) {
		return temp
	}

	dst := s.ResumePath(candidateID, path.Base(temp.String()))
	if err := s.fileSystem.CopyFile(ctx, temp.String(), dst); err != nil {
		logx.Warnf("Résumé migration for candidate %s failed, keeping %s: %v", candidateID, temp, err)
		return temp
	}
	if err := s.fileSystem.DeleteFile(ctx, temp.String()); err != nil {
		logx.Warnf("Failed to delete temporary résumé %s: %v", temp, err)
	}
	return kernel.FileID(dst)
}

// GetProfile retrieves a candidate by ID
func (s *CandidateService) GetProfile(ctx context.Context, candidateID kernel.CandidateID) (*candidate.Candidate, error) {
	return s.candidateRepo.GetByID(ctx, candidateID)
}

// GetByOpenID retrieves a candidate by identity
func (s *CandidateService) GetByOpenID(ctx context.Context, openID kernel.OpenID) (*candidate.Candidate, error) {
	return s.candidateRepo.GetByOpenID(ctx, openID)
}

// RecordLogin stamps the last login time
func (s *CandidateService) RecordLogin(ctx context.Context, candidateID kernel.CandidateID) error {
	return s.candidateRepo.TouchLogin(ctx, candidateID, s.now())
}

// UpdateProfile applies a partial update and re-projects the candidate's
// application views when a snapshot field changed
func (s *CandidateService) UpdateProfile(ctx context.Context, candidateID kernel.CandidateID, update candidate.ProfileUpdate) (*candidate.Candidate, error) {
	if update.IsEmpty() {
		return nil, candidate.ErrEmptyUpdate()
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	if f, ok := update.ResumeFileID.Get(); ok && !f.IsEmpty() {
		update.ResumeFileID = kernel.Some(s.migrateResume(ctx, candidateID, f))
	}

	updated, err := s.candidateRepo.ApplyUpdate(ctx, candidateID, update)
	if err != nil {
		return nil, err
	}

	if update.TouchesSnapshot() && s.refresher != nil {
		if err := s.refresher.RefreshCandidate(ctx, candidateID); err != nil {
			logx.Warnf("View refresh for candidate %s failed: %v", candidateID, err)
		}
	}

	return updated, nil
}

// ListCandidates lists candidates for operators
func (s *CandidateService) ListCandidates(ctx context.Context, pagination kernel.PaginationOptions) (*candidate.PaginatedCandidatesResponse, error) {
	if !pagination.IsValid() {
		return nil, candidate.ErrInvalidPagination().
			WithDetail("page", pagination.Page).
			WithDetail("page_size", pagination.PageSize)
	}

	page, err := s.candidateRepo.List(ctx, pagination)
	if err != nil {
		return nil, err
	}

	items := make([]candidate.CandidateResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, page.Items[i].ToResponse())
	}
	resp := kernel.Paginated[candidate.CandidateResponse]{
		Items:   items,
		Page:    page.Page,
		Empty:   page.Empty,
		HasMore: page.HasMore,
	}
	return &resp, nil
}
