package main

import (
	"testing"

	"github.com/xenocrypt01/smile-report-dash/internal/identity"
	"github.com/xenocrypt01/smile-report-dash/internal/report"
	"github.com/xenocrypt01/smile-report-dash/internal/session"
)

func authenticatedSnap() session.Snapshot {
	return session.Snapshot{
		State: session.StateAuthenticated,
		Session: identity.Session{
			Profile: identity.Profile{
				ID:       "id-1",
				Email:    "ana@example.test",
				FullName: "Ana Pérez",
			},
		},
	}
}

func TestApplyProfileDefaults_FillsFromSession(t *testing.T) {
	in := report.Request{}
	applyProfileDefaults(&in, authenticatedSnap())

	if in.SenderName != "Ana Pérez" {
		t.Fatalf("SenderName = %q, want the profile full name", in.SenderName)
	}
	if in.ContactDetails != "ana@example.test" {
		t.Fatalf("ContactDetails = %q, want the profile email", in.ContactDetails)
	}
}

func TestApplyProfileDefaults_ExplicitFlagsWin(t *testing.T) {
	in := report.Request{SenderName: "Otro Nombre", ContactDetails: "+54 11 5555-0000"}
	applyProfileDefaults(&in, authenticatedSnap())

	if in.SenderName != "Otro Nombre" {
		t.Fatalf("SenderName = %q, an explicit flag must not be overwritten", in.SenderName)
	}
	if in.ContactDetails != "+54 11 5555-0000" {
		t.Fatalf("ContactDetails = %q, an explicit flag must not be overwritten", in.ContactDetails)
	}
}

func TestApplyProfileDefaults_NoSessionLeavesEmpty(t *testing.T) {
	in := report.Request{}
	applyProfileDefaults(&in, session.Snapshot{State: session.StateUnauthenticated})

	if in.SenderName != "" || in.ContactDetails != "" {
		t.Fatalf("without a session nothing should be prefilled, got %q / %q",
			in.SenderName, in.ContactDetails)
	}
}
