package localink

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// upperFn fakes translation by uppercasing, which makes structural
// assertions easy to read.
func upperFn(ctx context.Context, text string) (string, error) {
	return strings.ToUpper(text), nil
}

func failOn(failText string) TranslateFunc {
	return func(ctx context.Context, text string) (string, error) {
		if strings.TrimSpace(text) == failText {
			return "", &ProviderError{Provider: "test", Message: "boom"}
		}
		return strings.ToUpper(text), nil
	}
}

func TestTranslateFields_Scalar(t *testing.T) {
	fields := map[string]FieldValue{
		"title": Text("Fast Setup"),
		"icon":  Text("Rocket"),
	}

	out, errs := TranslateFields(context.Background(), fields, []string{"title"}, upperFn)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}

	if out["title"].Text != "FAST SETUP" {
		t.Errorf("Expected translated title, got %q", out["title"].Text)
	}
	// Fields not named translatable pass through untouched.
	if out["icon"].Text != "Rocket" {
		t.Errorf("Expected icon unchanged, got %q", out["icon"].Text)
	}
}

func TestTranslateFields_PreservesListShape(t *testing.T) {
	fields := map[string]FieldValue{
		"highlights": Lines("One", "Two", "Three"),
	}

	out, errs := TranslateFields(context.Background(), fields, []string{"highlights"}, failOn("Two"))

	got := out["highlights"].Lines
	if len(got) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(got))
	}
	if got[0] != "ONE" || got[2] != "THREE" {
		t.Errorf("Expected surrounding elements translated, got %v", got)
	}
	// The failed element falls back to the original; the array never fails
	// as a whole.
	if got[1] != "Two" {
		t.Errorf("Expected failed element to keep original text, got %q", got[1])
	}
	if len(errs) != 1 {
		t.Errorf("Expected 1 recorded error, got %d", len(errs))
	}
}

func TestTranslateFields_Bullets(t *testing.T) {
	fields := map[string]FieldValue{
		"sections": Bullets(
			Bullet{Title: "Speed", Description: "Very fast"},
			Bullet{Title: "Safety", Description: ""},
		),
	}

	out, errs := TranslateFields(context.Background(), fields, []string{"sections"}, upperFn)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}

	got := out["sections"].Bullets
	if len(got) != 2 {
		t.Fatalf("Expected 2 bullets, got %d", len(got))
	}
	if got[0].Title != "SPEED" || got[0].Description != "VERY FAST" {
		t.Errorf("Expected bullet leaves translated, got %+v", got[0])
	}
	if got[1].Description != "" {
		t.Errorf("Empty sub-field must pass through, got %q", got[1].Description)
	}
}

func TestTranslateFields_BulletLeafFailure(t *testing.T) {
	fields := map[string]FieldValue{
		"sections": Bullets(Bullet{Title: "Speed", Description: "Slow part"}),
	}

	out, errs := TranslateFields(context.Background(), fields, []string{"sections"}, failOn("Slow part"))

	got := out["sections"].Bullets[0]
	if got.Title != "SPEED" {
		t.Errorf("Expected title translated, got %q", got.Title)
	}
	if got.Description != "Slow part" {
		t.Errorf("Expected failed leaf to keep original, got %q", got.Description)
	}

	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errs))
	}
	var fe *TranslationFailedError
	if !errors.As(errs[0], &fe) {
		t.Fatalf("Expected *TranslationFailedError, got %T", errs[0])
	}
	if fe.Field != "sections" {
		t.Errorf("Expected field 'sections', got %q", fe.Field)
	}
}

func TestTranslateFields_RichTextPreservesMarkup(t *testing.T) {
	fields := map[string]FieldValue{
		"answer": RichText(`<p>Hello <a href="/pricing">pricing</a></p><pre>keep me</pre>`),
	}

	out, errs := TranslateFields(context.Background(), fields, []string{"answer"}, upperFn)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}

	got := out["answer"].Text
	if !strings.Contains(got, "HELLO") || !strings.Contains(got, "PRICING") {
		t.Errorf("Expected text nodes translated, got %q", got)
	}
	if !strings.Contains(got, `href="/pricing"`) {
		t.Errorf("Expected attributes preserved, got %q", got)
	}
	if !strings.Contains(got, "keep me") {
		t.Errorf("Expected <pre> content untouched, got %q", got)
	}
}

func TestTranslateFields_MissingFieldSkipped(t *testing.T) {
	fields := map[string]FieldValue{
		"title": Text("Hello"),
	}

	out, errs := TranslateFields(context.Background(), fields, []string{"title", "description"}, upperFn)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	if _, ok := out["description"]; ok {
		t.Error("Missing field must not be materialized")
	}
	if out["title"].Text != "HELLO" {
		t.Errorf("Expected title translated, got %q", out["title"].Text)
	}
}

func TestTranslateFields_DoesNotMutateInput(t *testing.T) {
	fields := map[string]FieldValue{
		"highlights": Lines("One", "Two"),
	}

	_, _ = TranslateFields(context.Background(), fields, []string{"highlights"}, upperFn)

	if fields["highlights"].Lines[0] != "One" {
		t.Errorf("Input fields were mutated: %v", fields["highlights"].Lines)
	}
}
