package email

import (
	"strings"
	"testing"
)

func TestDefaultTemplates_RenderIncludesAllFields(t *testing.T) {
	tpls := DefaultTemplates()
	html, txt, err := tpls.Render(ReportVars{
		TargetPhone:      "+15551234567",
		TargetIdentifier: "some-handle",
		ReportReason:     "automated spamming",
		SenderName:       "Alice",
		ContactDetails:   "alice@x.com",
		SubmittedAt:      "2025-06-01T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"+15551234567", "some-handle", "automated spamming", "Alice", "alice@x.com"} {
		if !strings.Contains(html, want) {
			t.Fatalf("html missing %q", want)
		}
		if !strings.Contains(txt, want) {
			t.Fatalf("txt missing %q", want)
		}
	}
}

func TestDefaultTemplates_OptionalIdentifierOmitted(t *testing.T) {
	tpls := DefaultTemplates()
	html, txt, err := tpls.Render(ReportVars{
		TargetPhone:    "+15551234567",
		ReportReason:   "phishing",
		SenderName:     "Bob",
		ContactDetails: "bob@x.com",
		SubmittedAt:    "2025-06-01T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "Identificador adicional") || strings.Contains(txt, "Identificador adicional") {
		t.Fatalf("empty identifier must not render its row")
	}
}

func TestDefaultTemplates_HTMLEscapesReason(t *testing.T) {
	tpls := DefaultTemplates()
	html, _, err := tpls.Render(ReportVars{
		TargetPhone:    "1234567",
		ReportReason:   `<script>alert("x")</script>`,
		SenderName:     "Eve",
		ContactDetails: "eve@x.com",
		SubmittedAt:    "2025-06-01T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("html template must escape user content")
	}
}
