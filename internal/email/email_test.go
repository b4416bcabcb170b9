package email

import (
	"context"
	"strings"
	"testing"
)

type emailConfig struct{}

func (emailConfig) GetSMTPHost() string         { return "smtp.example.com" }
func (emailConfig) GetSMTPPort() int            { return 587 }
func (emailConfig) GetSMTPUsername() string     { return "" }
func (emailConfig) GetSMTPPassword() string     { return "" }
func (emailConfig) GetEmailFromName() string    { return "Profiles" }
func (emailConfig) GetEmailFromAddress() string { return "no-reply@example.com" }
func (emailConfig) IsEmailEnabled() bool        { return true }

func TestRenderWelcome(t *testing.T) {
	html, err := renderWelcome("ada@x.com", "Ada <script>")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "ada@x.com") || !strings.Contains(html, "Welcome aboard") {
		t.Fatalf("unexpected body: %s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("name must be escaped")
	}

	anonymous, _ := renderWelcome("ada@x.com", "")
	if !strings.Contains(anonymous, "Hi there") {
		t.Fatal("expected fallback greeting")
	}
}

func TestBuildMessage(t *testing.T) {
	sender := NewSMTPSender(emailConfig{})
	msg, err := sender.buildMessage("ada@x.com", subjectWelcome, "<p>hi</p>")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := msg.GetToString(); len(got) != 1 || got[0] != "<ada@x.com>" {
		t.Fatalf("to = %v", got)
	}

	if _, err := sender.buildMessage("not an address", subjectWelcome, ""); err == nil {
		t.Fatal("expected invalid recipient to fail")
	}
}

func TestNoopSender(t *testing.T) {
	if err := (NoopSender{}).SendWelcomeEmail(context.Background(), "a@x.com", ""); err != nil {
		t.Fatalf("noop: %v", err)
	}
}
