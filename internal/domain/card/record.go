package card

const (
	DefaultTitle       = "Untitled Submission"
	DefaultSubmitter   = "Unknown Submitter"
	DefaultDescription = "No description available."
	DefaultDate        = "Unknown date"
	DefaultImageName   = "Image"
)

// Record is one gallery entry after extraction. It is built fresh per render
// and never mutated afterwards.
type Record struct {
	Title          string
	Submitter      string
	Description    string
	SubmissionDate string

	Institution   string
	Country       string
	ResearchField string
	Methodology   string
	Technique     string
	DataSize      string
	MediaURL      string
	Publication   string
	Funding       string

	// nil when the front matter does not carry a usable number
	ActiveUsers *int
	Downloads   *int

	Coauthors []string
	Keywords  []string

	ImagePath string
	ImageName string

	RepoLink  string
	RepoName  string
	EntryLink string
	EntryName string
}

func (r Record) HasMetrics() bool {
	_, users := Count(r.ActiveUsers)
	_, downloads := Count(r.Downloads)
	return users || downloads
}

// Count returns an optional metric when it is set and non-zero.
func Count(p *int) (int, bool) {
	if p == nil || *p == 0 {
		return 0, false
	}
	return *p, true
}
