package mail

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/contactsbook/contacts-api/internal/core/ports"
)

func TestTemplates_RenderAllKinds(t *testing.T) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		t.Fatalf("templates do not parse: %v", err)
	}

	for kind, file := range templateFiles {
		name := file[len("templates/"):]
		var body bytes.Buffer
		err := tmpl.ExecuteTemplate(&body, name, templateData{
			Username: "alice",
			Link:     "https://example.com/confirm?token=abc",
		})
		if err != nil {
			t.Fatalf("render %s: %v", name, err)
		}

		html := body.String()
		if !strings.Contains(html, "alice") {
			t.Fatalf("%s: username missing from body", kind)
		}
		if !strings.Contains(html, "https://example.com/confirm?token=abc") {
			t.Fatalf("%s: link missing from body", kind)
		}
	}
}

func TestSubjects_CoverAllKinds(t *testing.T) {
	for _, kind := range []ports.MailKind{ports.MailVerification, ports.MailPasswordReset} {
		if subjects[kind] == "" {
			t.Fatalf("no subject for mail kind %q", kind)
		}
		if templateFiles[kind] == "" {
			t.Fatalf("no template for mail kind %q", kind)
		}
	}
}
