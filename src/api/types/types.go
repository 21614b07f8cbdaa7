package types

// Settings stored in the database, loaded into the config layer at startup.
type Setting struct {
	ID    uint8  `gorm:"primaryKey"`
	Name  string `gorm:"size:32;not null"`
	Value string `gorm:"size:256;not null"`
}

// Issue status values. Transitions are unconstrained; anything unrecognized
// normalizes to StatusPending.
const (
	StatusPending   = "Pending"
	StatusInProcess = "In-Process"
	StatusSolved    = "Solved"
	StatusDiscarded = "Discarded"
)

// Media is one uploaded attachment. Data carries the inline base64 payload as
// produced by the submission form; Checksum is computed server side.
type Media struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	Data     string `json:"data"`
	Checksum string `json:"checksum,omitempty"`
}

// Issue as served in the issues feed. Contact is masked for public callers.
type Issue struct {
	ID               string  `json:"id"`
	Timestamp        string  `json:"timestamp"`
	DateUpdated      string  `json:"dateUpdated"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	SubmitterName    string  `json:"submitterName"`
	Contact          string  `json:"contact"`
	Area             string  `json:"area"`
	Media            []Media `json:"media"`
	Status           string  `json:"status"`
	AdminNotes       string  `json:"adminNotes"`
	ResolutionReason string  `json:"resolutionReason"`
	Verified         bool    `json:"verified"`
}

// Response as served in the responses feed. Unverified responses are only
// visible to privileged callers; email and phone are masked for the public.
type Response struct {
	ID                     string  `json:"id"`
	Timestamp              string  `json:"timestamp"`
	RespondentName         string  `json:"respondentName"`
	RespondentOrganization string  `json:"respondentOrganization"`
	RespondentEmail        string  `json:"respondentEmail"`
	RespondentPhone        string  `json:"respondentPhone"`
	Category               string  `json:"category"`
	IssueReference         string  `json:"issueReference"`
	ResponseTitle          string  `json:"responseTitle"`
	ResponseContent        string  `json:"responseContent"`
	SupportingEvidence     string  `json:"supportingEvidence"`
	Media                  []Media `json:"media"`
	Verified               bool    `json:"verified"`
	VerifiedAt             string  `json:"verifiedAt"`
}

// Signature is one petition signature row. Rows are written pre-redacted by
// the petition form pipeline; this service only reads them.
type Signature struct {
	Timestamp    string `json:"timestamp"`
	Name         string `json:"name"`
	PhonePreview string `json:"phonePreview"`
	Area         string `json:"area"`
}

// StatusCounts is the histogram over all issues regardless of caller privilege.
type StatusCounts struct {
	Pending   int `json:"pending"`
	InProcess int `json:"inProcess"`
	Solved    int `json:"solved"`
	Discarded int `json:"discarded"`
}

type IssuesFeed struct {
	Success     bool         `json:"success"`
	UpdatedAt   string       `json:"updatedAt"`
	TotalIssues int          `json:"totalIssues"`
	ByStatus    StatusCounts `json:"byStatus"`
	Issues      []Issue      `json:"issues"`
}

type ResponsesFeed struct {
	Success        bool       `json:"success"`
	UpdatedAt      string     `json:"updatedAt"`
	TotalResponses int        `json:"totalResponses"`
	Responses      []Response `json:"responses"`
}

type PetitionFeed struct {
	Success             bool        `json:"success"`
	UpdatedAt           string      `json:"updatedAt"`
	TotalSignatures     int         `json:"totalSignatures"`
	AnonymousSignatures int         `json:"anonymousSignatures"`
	Rows                []Signature `json:"rows"`
}
