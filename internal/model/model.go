package model

import "time"

// Character budgets for the three outreach message kinds.
const (
	LinkedInMaxChars = 300
	EmailMaxChars    = 1200
	FollowupMaxChars = 1200
)

// Status values for a history entry.
const (
	StatusDraft    = "draft"
	StatusAccepted = "accepted"
)

// WorkItem is one position in a work history.
type WorkItem struct {
	Company          string `json:"company"`
	Role             string `json:"role"`
	Duration         string `json:"duration"`
	Responsibilities string `json:"responsibilities"`
}

// Education is one school entry.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Field  string `json:"field"`
}

// StructuredProfile is the normalized form of a free-text professional profile.
type StructuredProfile struct {
	WorkHistory    []WorkItem      `json:"work_history"`
	Education      []Education     `json:"education"`
	Skills         []string        `json:"skills"`
	Industries     []string        `json:"industries"`
	Achievements   []string        `json:"achievements"`
	Keywords       []string        `json:"keywords"`
	ToneIndicators map[string]bool `json:"tone_indicators"`
}

// EmptyProfile returns the profile used when extraction output cannot be parsed.
func EmptyProfile() StructuredProfile {
	return StructuredProfile{
		WorkHistory:    []WorkItem{},
		Education:      []Education{},
		Skills:         []string{},
		Industries:     []string{},
		Achievements:   []string{},
		Keywords:       []string{},
		ToneIndicators: map[string]bool{},
	}
}

// Normalize replaces nil collections with empty ones so the JSON shape is stable.
func (p StructuredProfile) Normalize() StructuredProfile {
	if p.WorkHistory == nil {
		p.WorkHistory = []WorkItem{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	p.Skills = nonNil(p.Skills)
	p.Industries = nonNil(p.Industries)
	p.Achievements = nonNil(p.Achievements)
	p.Keywords = nonNil(p.Keywords)
	if p.ToneIndicators == nil {
		p.ToneIndicators = map[string]bool{}
	}
	return p
}

// OverlapSummary describes what two profiles have in common.
type OverlapSummary struct {
	SharedCompanies            []string `json:"shared_companies"`
	SharedSchools              []string `json:"shared_schools"`
	SharedIndustries           []string `json:"shared_industries"`
	SkillOverlap               []string `json:"skill_overlap"`
	Alignment                  string   `json:"alignment"`
	PersonalizationHookOptions []string `json:"personalization_hook_options"`
}

// EmptyOverlap returns the overlap used when analysis output cannot be parsed.
func EmptyOverlap() OverlapSummary {
	return OverlapSummary{
		SharedCompanies:            []string{},
		SharedSchools:              []string{},
		SharedIndustries:           []string{},
		SkillOverlap:               []string{},
		PersonalizationHookOptions: []string{},
	}
}

// Normalize replaces nil slices with empty ones.
func (o OverlapSummary) Normalize() OverlapSummary {
	o.SharedCompanies = nonNil(o.SharedCompanies)
	o.SharedSchools = nonNil(o.SharedSchools)
	o.SharedIndustries = nonNil(o.SharedIndustries)
	o.SkillOverlap = nonNil(o.SkillOverlap)
	o.PersonalizationHookOptions = nonNil(o.PersonalizationHookOptions)
	return o
}

// ContextAttributes are derived from the sender's free-text context note.
type ContextAttributes struct {
	OutreachGoal      string `json:"outreach_goal"`
	ConnectionContext string `json:"connection_context"`
	PersonalHook      string `json:"personal_hook"`
}

// EnrichmentItem is one supplementary search result.
type EnrichmentItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
	Query   string `json:"query"`
}

// MessageSet holds the three drafted messages.
type MessageSet struct {
	LinkedInConnectionRequest string `json:"linkedin_connection_request"`
	ColdOutreachEmail         string `json:"cold_outreach_email"`
	FollowupTemplate          string `json:"followup_template"`
}

// HistoryEntry records one outreach-generation transaction.
type HistoryEntry struct {
	ID                string            `json:"id"`
	Timestamp         time.Time         `json:"timestamp"`
	TargetProfileText string            `json:"target_profile_text"`
	TargetProfile     StructuredProfile `json:"target_profile"`
	ContextNote       string            `json:"context_note"`
	ContextAttributes ContextAttributes `json:"context_attributes"`
	OverlapSummary    OverlapSummary    `json:"overlap_summary"`
	ExaResults        []EnrichmentItem  `json:"exa_results"`
	MessageSet
	Status          string  `json:"status"`
	FollowupMessage string  `json:"followup_message,omitempty"`
	ContactName     *string `json:"contact_name,omitempty"`
	ContactCompany  *string `json:"contact_company,omitempty"`
}

// UserProfileRecord is the sender's canonical profile.
type UserProfileRecord struct {
	UserID    string            `json:"user_id"`
	Profile   StructuredProfile `json:"profile"`
	Embedding []float32         `json:"embedding,omitempty"`
	FirstName string            `json:"first_name,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
