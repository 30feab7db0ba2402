package kernel

type CandidateID string

func NewCandidateID(id string) CandidateID { return CandidateID(id) }
func (r CandidateID) String() string       { return string(r) }
func (r CandidateID) IsEmpty() bool        { return string(r) == "" }

type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (r JobID) String() string { return string(r) }
func (r JobID) IsEmpty() bool  { return string(r) == "" }

// OpenID is the identity provider's stable subject for a candidate
type OpenID string

func (o OpenID) String() string { return string(o) }
func (o OpenID) IsEmpty() bool  { return string(o) == "" }

// FileID references an object in résumé storage
type FileID string

func (f FileID) String() string { return string(f) }
func (f FileID) IsEmpty() bool  { return string(f) == "" }

type BannerID string

func NewBannerID(id string) BannerID { return BannerID(id) }
func (r BannerID) String() string    { return string(r) }
func (r BannerID) IsEmpty() bool     { return string(r) == "" }
