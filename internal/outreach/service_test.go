package outreach

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"outreach-backend/internal/history"
	"outreach-backend/internal/model"
	"outreach-backend/internal/profiles"
	"outreach-backend/internal/search"
	"outreach-backend/internal/stages"
)

// scriptedCompleter answers by matching a fragment of the system prompt.
type scriptedCompleter struct {
	mu      sync.Mutex
	replies map[string]string
	err     error
	calls   []string
}

func (s *scriptedCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, systemPrompt)
	if s.err != nil {
		return "", s.err
	}
	for fragment, reply := range s.replies {
		if strings.Contains(systemPrompt, fragment) {
			return reply, nil
		}
	}
	return "", nil
}

type failingSearch struct{ calls int }

func (f *failingSearch) Search(ctx context.Context, query string, n int) ([]search.Result, error) {
	f.calls++
	return nil, errors.New("search unavailable")
}

type staticSearch struct{}

func (staticSearch) Search(ctx context.Context, query string, n int) ([]search.Result, error) {
	return []search.Result{{Title: "News about " + query, URL: "https://example.com", Text: strings.Repeat("x", 400)}}, nil
}

var longDraft = `{
  "linkedin_connection_request": "Hi [Name], ` + strings.Repeat("I enjoyed your talk on distributed systems. ", 20) + `Best, [Your Name]",
  "cold_outreach_email": "Hello [Name], ` + strings.Repeat("word ", 400) + `",
  "followup_template": "Thanks for connecting, [Name]!"
}`

func defaultReplies() map[string]string {
	return map[string]string{
		"data extraction":      `{"work_history":[{"company":"Globex","role":"VP Engineering"}],"industries":["Software"],"skills":["go"]}`,
		"profile analysis":     `{"shared_industries":["Software"],"skill_overlap":["go"],"alignment":"strong"}`,
		"cold outreach writer": longDraft,
		"follow-up":            "Great to be connected, [Name]. Would love to hear more about Globex. [Your Name]",
		"refinement":           strings.Repeat("Shorter and friendlier. ", 30),
	}
}

func newService(t *testing.T, completer *scriptedCompleter, capability search.Capability) (*Service, *history.MemoryRepo) {
	t.Helper()
	profileRepo := profiles.NewMemoryRepo()
	user := model.EmptyProfile()
	user.WorkHistory = []model.WorkItem{{Company: "Initech", Role: "Staff Engineer"}}
	if err := profileRepo.Save(context.Background(), model.UserProfileRecord{UserID: "u1", Profile: user, FirstName: "Alex"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	hist := history.NewMemoryRepo()
	return &Service{
		Profiles: profileRepo,
		History:  hist,
		Stages:   &stages.Runner{Fast: completer, Writer: completer},
		Enricher: &search.Enricher{Capability: capability},
	}, hist
}

func TestGenerateEnforcesBudgetsAndRecordsOneDraft(t *testing.T) {
	svc, hist := newService(t, &scriptedCompleter{replies: defaultReplies()}, search.Present(staticSearch{}))

	res, err := svc.Generate(context.Background(), GenerateInput{
		UserID:        "u1",
		TargetProfile: "Jane Smith\nVP Engineering at Globex",
		ContextNote:   "We met at the Go conference, would love to grab coffee",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if n := utf8.RuneCountInString(res.Messages.LinkedInConnectionRequest); n > model.LinkedInMaxChars {
		t.Fatalf("linkedin message has %d chars", n)
	}
	if n := utf8.RuneCountInString(res.Messages.ColdOutreachEmail); n > model.EmailMaxChars {
		t.Fatalf("email has %d chars", n)
	}
	if n := utf8.RuneCountInString(res.Messages.FollowupTemplate); n > model.FollowupMaxChars {
		t.Fatalf("followup template has %d chars", n)
	}
	for _, msg := range []string{res.Messages.LinkedInConnectionRequest, res.Messages.ColdOutreachEmail, res.Messages.FollowupTemplate} {
		if strings.Contains(msg, "[Name]") || strings.Contains(msg, "[Your Name]") {
			t.Fatalf("placeholder left in %q", msg)
		}
	}

	entries, _ := hist.List(context.Background(), "u1")
	if len(entries) != 1 {
		t.Fatalf("expected exactly one history entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.ID != res.HistoryID || entry.Status != model.StatusDraft {
		t.Fatalf("unexpected entry %#v", entry)
	}
	if entry.ContextAttributes.OutreachGoal != "coffee chat or meeting" {
		t.Fatalf("unexpected context attributes %#v", entry.ContextAttributes)
	}
	if len(entry.ExaResults) == 0 || len(entry.ExaResults) > 3 || utf8.RuneCountInString(entry.ExaResults[0].Summary) > 200 {
		t.Fatalf("unexpected enrichment %#v", entry.ExaResults)
	}
	if entry.ContactCompany == nil || *entry.ContactCompany != "Globex" {
		t.Fatalf("expected contact company from target profile")
	}
	if entry.LinkedInConnectionRequest != res.Messages.LinkedInConnectionRequest {
		t.Fatalf("stored message differs from returned message")
	}
}

func TestGenerateSurvivesFailingSearch(t *testing.T) {
	failing := &failingSearch{}
	svc, hist := newService(t, &scriptedCompleter{replies: defaultReplies()}, search.Present(failing))

	res, err := svc.Generate(context.Background(), GenerateInput{UserID: "u1", TargetProfile: "VP Engineering at Globex"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Messages.FollowupTemplate == "" {
		t.Fatalf("expected messages despite search failure")
	}
	if failing.calls == 0 {
		t.Fatalf("expected search to be attempted")
	}
	entry, _ := hist.Get(context.Background(), "u1", res.HistoryID)
	if entry.ExaResults == nil || len(entry.ExaResults) != 0 {
		t.Fatalf("expected empty exa_results, got %#v", entry.ExaResults)
	}
}

func TestGenerateWithAbsentSearch(t *testing.T) {
	svc, hist := newService(t, &scriptedCompleter{replies: defaultReplies()}, search.Absent())

	res, err := svc.Generate(context.Background(), GenerateInput{UserID: "u1", TargetProfile: "someone"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	entry, _ := hist.Get(context.Background(), "u1", res.HistoryID)
	if entry.ExaResults == nil || len(entry.ExaResults) != 0 {
		t.Fatalf("expected empty exa_results, got %#v", entry.ExaResults)
	}
}

func TestGenerateMalformedExtractionUsesEmptyProfile(t *testing.T) {
	replies := defaultReplies()
	replies["data extraction"] = "I cannot help with that."
	svc, hist := newService(t, &scriptedCompleter{replies: replies}, search.Absent())

	res, err := svc.Generate(context.Background(), GenerateInput{UserID: "u1", TargetProfile: "someone"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	entry, _ := hist.Get(context.Background(), "u1", res.HistoryID)
	p := entry.TargetProfile
	if len(p.WorkHistory) != 0 || len(p.Education) != 0 || len(p.Skills) != 0 || len(p.Industries) != 0 ||
		len(p.Achievements) != 0 || len(p.Keywords) != 0 || p.ToneIndicators == nil || len(p.ToneIndicators) != 0 {
		t.Fatalf("expected empty default profile, got %#v", p)
	}
}

func TestGenerateMalformedDraftStillRecords(t *testing.T) {
	replies := defaultReplies()
	replies["cold outreach writer"] = "not json"
	svc, hist := newService(t, &scriptedCompleter{replies: replies}, search.Absent())

	res, err := svc.Generate(context.Background(), GenerateInput{UserID: "u1", TargetProfile: "someone"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Messages != (model.MessageSet{}) {
		t.Fatalf("expected empty messages, got %#v", res.Messages)
	}
	if entries, _ := hist.List(context.Background(), "u1"); len(entries) != 1 {
		t.Fatalf("expected entry to be recorded")
	}
}

func TestGenerateErrors(t *testing.T) {
	cases := []struct {
		name string
		in   GenerateInput
		err  error
	}{
		{name: "missing profile", in: GenerateInput{UserID: "ghost", TargetProfile: "x"}, err: ErrProfileNotFound},
		{name: "empty target", in: GenerateInput{UserID: "u1", TargetProfile: "  <b></b> "}, err: ErrInvalidInput},
		{name: "missing uuid", in: GenerateInput{TargetProfile: "x"}, err: ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, hist := newService(t, &scriptedCompleter{replies: defaultReplies()}, search.Absent())
			if _, err := svc.Generate(context.Background(), tc.in); !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			if entries, _ := hist.List(context.Background(), "u1"); len(entries) != 0 {
				t.Fatalf("expected no history on failure")
			}
		})
	}
}

func TestGenerateTransportFailure(t *testing.T) {
	svc, _ := newService(t, &scriptedCompleter{err: errors.New("connection refused")}, search.Absent())
	if _, err := svc.Generate(context.Background(), GenerateInput{UserID: "u1", TargetProfile: "x"}); !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestRefine(t *testing.T) {
	svc, _ := newService(t, &scriptedCompleter{replies: defaultReplies()}, search.Absent())

	out, err := svc.Refine(context.Background(), RefineInput{Message: "Hi there", Instructions: "make it shorter", MessageType: "linkedin"})
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if utf8.RuneCountInString(out) > model.LinkedInMaxChars {
		t.Fatalf("refined message over budget: %d", utf8.RuneCountInString(out))
	}
	if _, err := svc.Refine(context.Background(), RefineInput{Message: "Hi", Instructions: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFollowUpTwiceUpdatesSameEntry(t *testing.T) {
	svc, hist := newService(t, &scriptedCompleter{replies: defaultReplies()}, search.Absent())
	ctx := context.Background()

	res, err := svc.Generate(ctx, GenerateInput{UserID: "u1", TargetProfile: "Jane Smith\nVP at Globex"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i := 0; i < 2; i++ {
		msg, err := svc.FollowUp(ctx, "u1", res.HistoryID)
		if err != nil {
			t.Fatalf("FollowUp %d: %v", i, err)
		}
		if msg == "" || strings.Contains(msg, "[Your Name]") || utf8.RuneCountInString(msg) > model.FollowupMaxChars {
			t.Fatalf("unexpected follow-up %q", msg)
		}
	}

	entries, _ := hist.List(ctx, "u1")
	if len(entries) != 1 {
		t.Fatalf("expected no duplicate entries, got %d", len(entries))
	}
	if entries[0].Status != model.StatusAccepted || entries[0].FollowupMessage == "" {
		t.Fatalf("unexpected entry %#v", entries[0])
	}
}

func TestFollowUpNotFound(t *testing.T) {
	svc, _ := newService(t, &scriptedCompleter{replies: defaultReplies()}, search.Absent())
	if _, err := svc.FollowUp(context.Background(), "u1", "missing"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	if _, err := svc.FollowUp(context.Background(), "ghost", "missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
