package form

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/wikiforge/requestwiki/pkg/config"
	"github.com/wikiforge/requestwiki/pkg/identity"
	"github.com/wikiforge/requestwiki/pkg/model"
	"github.com/wikiforge/requestwiki/pkg/request"
	"github.com/wikiforge/requestwiki/pkg/visibility"
)

var buildTime = time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Wiki.Domain = "example.wiki"
	return cfg
}

func testRequest() *request.WikiRequest {
	req := request.New(identity.Ref{ID: 7, Name: "Requester"}, buildTime)
	req.ID = 1
	req.Sitename = "Song Contest Wiki"
	req.Subdomain = "songcontest"
	req.DBName = "songcontestwiki"
	req.Language = "en"
	req.Description = "A wiki about song contests."
	return req
}

func reviewerIdentity(rights ...string) identity.Identity {
	return identity.New(42, "Reviewer", append([]string{"read", "createwiki"}, rights...)...)
}

func requesterIdentity() identity.Identity {
	ident := identity.New(7, "Requester", "read")
	ident.EmailConfirmed = true
	return ident
}

func TestBuildReviewDeniesNilRequest(t *testing.T) {
	b := NewBuilder(testConfig())
	if _, err := b.BuildReview(nil, reviewerIdentity()); !errors.Is(err, ErrViewDenied) {
		t.Errorf("error = %v, want ErrViewDenied", err)
	}
}

func TestBuildReviewVisibilityGate(t *testing.T) {
	tests := []struct {
		name       string
		visibility request.Visibility
		viewer     identity.Identity
		wantDenied bool
	}{
		{"public readable by reader", request.VisibilityPublic, identity.New(9, "Reader", "read"), false},
		{"public denied without read", request.VisibilityPublic, identity.Anonymous(), true},
		{"hidden needs createwiki", request.VisibilityHidden, identity.New(9, "Reader", "read"), true},
		{"hidden visible to reviewer", request.VisibilityHidden, reviewerIdentity(), false},
		{"deleted needs delete", request.VisibilityDeleted, reviewerIdentity(), true},
		{"deleted visible with delete", request.VisibilityDeleted, reviewerIdentity("delete"), false},
		{"oversight needs suppressrevision", request.VisibilityOversight, reviewerIdentity("delete"), true},
		{"oversight visible with suppressrevision", request.VisibilityOversight, reviewerIdentity("suppressrevision"), false},
		{"requester locked out of own hidden request", request.VisibilityHidden, requesterIdentity(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			req.Visibility = tt.visibility
			_, err := NewBuilder(testConfig()).BuildReview(req, tt.viewer)
			if denied := errors.Is(err, ErrViewDenied); denied != tt.wantDenied {
				t.Errorf("denied = %v, want %v (err %v)", denied, tt.wantDenied, err)
			}
		})
	}
}

func TestBuildReviewPendingBanner(t *testing.T) {
	b := NewBuilder(testConfig())

	desc, err := b.BuildReview(testRequest(), requesterIdentity())
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}
	if desc.Fields[0].Name != "requesterpendinginfo" {
		t.Errorf("first field = %q, want requesterpendinginfo", desc.Fields[0].Name)
	}

	// Not the requester: no banner.
	desc, err = b.BuildReview(testRequest(), reviewerIdentity())
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}
	if desc.Has("requesterpendinginfo") {
		t.Error("banner shown to a non-requester")
	}

	// Requester, but the request is no longer in review.
	declined := testRequest()
	declined.Status = request.StatusDeclined
	desc, err = b.BuildReview(declined, requesterIdentity())
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}
	if desc.Has("requesterpendinginfo") {
		t.Error("banner shown for a decided request")
	}
}

func TestBuildReviewIsIdempotent(t *testing.T) {
	b := NewBuilder(testConfig())
	first, err := b.BuildReview(testRequest(), requesterIdentity())
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}
	second, err := b.BuildReview(testRequest(), requesterIdentity())
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated build differs (-first +second):\n%s", diff)
	}
}

func TestBuildReviewBystanderSeesNoControls(t *testing.T) {
	desc, err := NewBuilder(testConfig()).BuildReview(testRequest(), identity.New(9, "Reader", "read"))
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}
	for _, name := range []string{KeySubmitComment, KeySubmitEdit, KeySubmitHandle, "submission-action", "edit-sitename"} {
		if desc.Has(name) {
			t.Errorf("bystander sees %q", name)
		}
	}
	if !desc.Has("sitename") || !desc.Has("description") {
		t.Errorf("request fields missing: %v", desc.Names())
	}
}

func TestBuildReviewRequesterGetsEditNotReview(t *testing.T) {
	desc, err := NewBuilder(testConfig()).BuildReview(testRequest(), requesterIdentity())
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}
	for _, name := range []string{"edit-sitename", "edit-url", "edit-description", KeySubmitEdit, "comment", KeySubmitComment} {
		if !desc.Has(name) {
			t.Errorf("requester missing %q: %v", name, desc.Names())
		}
	}
	for _, name := range []string{"submission-action", "visibility", KeySubmitHandle} {
		if desc.Has(name) {
			t.Errorf("requester sees reviewer control %q", name)
		}
	}
}

func TestBuildReviewBlockedReviewerLosesControls(t *testing.T) {
	blocked := reviewerIdentity()
	blocked.Blocked = true
	desc, err := NewBuilder(testConfig()).BuildReview(testRequest(), blocked)
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}
	if desc.Has("submission-action") {
		t.Error("blocked reviewer still sees review controls")
	}
}

func TestBuildReviewVisibilityOptionsAdditive(t *testing.T) {
	tests := []struct {
		name   string
		viewer identity.Identity
		want   []string
	}{
		{"base reviewer", reviewerIdentity(), []string{"0", "1"}},
		{"with delete", reviewerIdentity("delete"), []string{"0", "1", "2"}},
		{"with suppressrevision only", reviewerIdentity("suppressrevision"), []string{"0", "1", "3"}},
		{"with both", reviewerIdentity("delete", "suppressrevision"), []string{"0", "1", "2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := NewBuilder(testConfig()).BuildReview(testRequest(), tt.viewer)
			if err != nil {
				t.Fatalf("BuildReview() error = %v", err)
			}
			field, ok := desc.Field("visibility-options")
			if !ok {
				t.Fatal("visibility-options missing")
			}
			var got []string
			for _, choice := range field.Options {
				got = append(got, choice.Value)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildReviewVisibilityOptionsHiddenBehindToggle(t *testing.T) {
	desc, err := NewBuilder(testConfig()).BuildReview(testRequest(), reviewerIdentity())
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}
	field, _ := desc.Field("visibility-options")
	want := &visibility.Rule{Op: visibility.OpNotEqual, Field: "visibility", Value: "1"}
	if diff := cmp.Diff(want, field.HideIf); diff != "" {
		t.Errorf("hide rule mismatch (-want +got):\n%s", diff)
	}

	toggle, _ := desc.Field("visibility")
	if toggle.Default != "0" {
		t.Errorf("toggle default = %v, want unchecked for a public request", toggle.Default)
	}
}

func TestBuildReviewInvalidDBNameRemovesApprove(t *testing.T) {
	b := NewBuilder(testConfig(), WithDBNameChecker(func(dbname string) error {
		return errors.New("database name already exists")
	}))
	desc, err := b.BuildReview(testRequest(), reviewerIdentity())
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}

	action, ok := desc.Field("submission-action")
	if !ok {
		t.Fatal("submission-action missing")
	}
	for _, choice := range action.Options {
		if choice.Value == "approve" {
			t.Error("approve offered for an invalid database name")
		}
	}
	if len(action.Options) != 2 {
		t.Errorf("got %d action options, want 2", len(action.Options))
	}
	if !desc.Has("dbname-error") {
		t.Error("dbname-error notice missing")
	}
}

func TestBuildReviewCannedResponses(t *testing.T) {
	cfg := testConfig()
	cfg.Review.CannedResponses = []config.ResponseGroup{
		{Label: "Decline", Responses: []string{"Too vague.", "Duplicate."}},
		{Label: "On hold", Responses: []string{"Checking the name."}},
	}
	desc, err := NewBuilder(cfg).BuildReview(testRequest(), reviewerIdentity())
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}

	reason, ok := desc.Field("reason")
	if !ok {
		t.Fatal("reason missing")
	}
	if reason.Kind != model.KindSelectOrOther {
		t.Errorf("reason kind = %q, want %q", reason.Kind, model.KindSelectOrOther)
	}
	if reason.Default != "Too vague." {
		t.Errorf("reason default = %v, want first canned response", reason.Default)
	}
	if len(reason.Options) != 3 {
		t.Errorf("got %d reason options, want 3", len(reason.Options))
	}
}

func TestBuildReviewFreeTextReasonWithoutCanned(t *testing.T) {
	desc, err := NewBuilder(testConfig()).BuildReview(testRequest(), reviewerIdentity())
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}
	reason, _ := desc.Field("reason")
	if reason.Kind != model.KindTextarea {
		t.Errorf("reason kind = %q, want %q", reason.Kind, model.KindTextarea)
	}
}

func TestBuildReviewCommentThread(t *testing.T) {
	req := testRequest()
	first := buildTime.Add(-2 * time.Hour)
	second := buildTime.Add(-1 * time.Hour)
	req.AddComment("Looks promising.", identity.Ref{ID: 42, Name: "Reviewer"}, first)
	req.AddComment("Thanks!", identity.Ref{ID: 7, Name: "Requester"}, second)

	desc, err := NewBuilder(testConfig()).BuildReview(req, reviewerIdentity())
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}

	comments := desc.Section(model.SectionComments)
	// The thread plus the reviewer's own comment box and its submit.
	if len(comments) != 4 {
		t.Fatalf("got %d comment-section fields, want 4: %v", len(comments), desc.Names())
	}
	if comments[0].Default != "Looks promising." {
		t.Errorf("first comment text = %v", comments[0].Default)
	}
	if comments[0].Label != "Reviewer (07:26, 14 March 2026)" {
		t.Errorf("first comment label = %q", comments[0].Label)
	}
	if !comments[0].ReadOnly {
		t.Error("thread comment not read only")
	}
}

func TestBuildIntakeDefaultFlags(t *testing.T) {
	desc := NewBuilder(testConfig()).BuildIntake()

	for _, name := range []string{"subdomain", "sitename", "language", "private", "reason"} {
		if !desc.Has(name) {
			t.Errorf("intake missing %q: %v", name, desc.Names())
		}
	}
	for _, name := range []string{"category", "bio", "migration", "purpose", "public-description", "agreement"} {
		if desc.Has(name) {
			t.Errorf("intake offers %q without its flag", name)
		}
	}

	subdomain, _ := desc.Field("subdomain")
	if subdomain.Kind != model.KindTextWithButton || subdomain.ButtonLabel != ".example.wiki" {
		t.Errorf("subdomain control = %+v", subdomain)
	}
	language, _ := desc.Field("language")
	if language.Default != "en" {
		t.Errorf("language default = %v, want en", language.Default)
	}
}

func TestBuildIntakeAllFlags(t *testing.T) {
	cfg := testConfig()
	cfg.Intake.Categories = []config.Choice{{Label: "Uncategorised", Value: "uncategorized"}}
	cfg.Intake.BiographicalOption = true
	cfg.Intake.MigrationInquire = true
	cfg.Intake.Purposes = []string{"community", "education"}
	cfg.Intake.PublicDescriptions = true
	cfg.Intake.DiscoveryEnabled = true
	cfg.Intake.ConfirmAgreement = true

	desc := NewBuilder(cfg).BuildIntake()
	for _, name := range []string{
		"category", "bio", "migration", "migration-location", "migration-type",
		"migration-details", "purpose", "public-description", "agreement",
	} {
		if !desc.Has(name) {
			t.Errorf("intake missing %q: %v", name, desc.Names())
		}
	}

	location, _ := desc.Field("migration-location")
	if diff := cmp.Diff(visibility.HiddenUnlessChecked("migration"), location.HideIf); diff != "" {
		t.Errorf("migration-location hide rule mismatch (-want +got):\n%s", diff)
	}
}

// The details control is a textarea when first requesting and a plain
// text input when editing.
func TestMigrationDetailsControlKinds(t *testing.T) {
	cfg := testConfig()
	cfg.Intake.MigrationInquire = true

	intake := NewBuilder(cfg).BuildIntake()
	details, ok := intake.Field("migration-details")
	if !ok {
		t.Fatalf("intake missing migration-details: %v", intake.Names())
	}
	if details.Kind != model.KindTextarea || details.Rows != 4 {
		t.Errorf("intake details control = %+v", details)
	}

	review, err := NewBuilder(cfg).BuildReview(testRequest(), requesterIdentity())
	if err != nil {
		t.Fatalf("BuildReview() error = %v", err)
	}
	editDetails, ok := review.Field("edit-migration-details")
	if !ok {
		t.Fatalf("review missing edit-migration-details: %v", review.Names())
	}
	if editDetails.Kind != model.KindText {
		t.Errorf("edit details kind = %q, want %q", editDetails.Kind, model.KindText)
	}
	if editDetails.Rows != 0 {
		t.Errorf("edit details carries rows = %d", editDetails.Rows)
	}
}

func TestBuildIntakeReasonBounds(t *testing.T) {
	cfg := testConfig()
	cfg.Intake.ReasonMinLength = 25
	cfg.Intake.ReasonMaxLength = 4096

	desc := NewBuilder(cfg).BuildIntake()
	reason, _ := desc.Field("reason")
	if reason.MinLength != 25 || reason.MaxLength != 4096 {
		t.Errorf("reason bounds = %d..%d, want 25..4096", reason.MinLength, reason.MaxLength)
	}
}
