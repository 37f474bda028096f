package services

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"outreachengine/internal/domain"
)

// placeholderMarker is what makes an operator-supplied override text a
// template instead of a literal.
const placeholderMarker = "{{"

type contentResolver struct {
	registry   domain.TemplateRegistry
	senderName string
}

// NewContentResolver returns a ContentResolver that renders named templates
// from the registry, or an operator-supplied override when one is given.
// senderName is the sender_name template value; the per-campaign From
// identity never leaks into content, so resolution stays deterministic.
func NewContentResolver(registry domain.TemplateRegistry, senderName string) domain.ContentResolver {
	return &contentResolver{registry: registry, senderName: senderName}
}

func (r *contentResolver) Resolve(recipient domain.Recipient, language string, override *domain.ContentOverride) (string, string, error) {
	data := r.templateData(recipient)

	if override != nil {
		subject, err := renderOverride(override.Subject, data)
		if err != nil {
			return "", "", fmt.Errorf("render override subject: %w", err)
		}
		body, err := renderOverride(override.Body, data)
		if err != nil {
			return "", "", fmt.Errorf("render override body: %w", err)
		}
		return subject, body, nil
	}

	subject, body, err := r.registry.Render(recipient.Kind(), language, data)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func (r *contentResolver) templateData(recipient domain.Recipient) map[string]string {
	name := strings.TrimSpace(recipient.DisplayName())
	if name == "" {
		name = "there"
	}
	sender := r.senderName
	if sender == "" {
		sender = "Our Team"
	}

	data := map[string]string{
		"recipient_name": name,
		"sender_name":    sender,
	}
	for k, v := range recipient.TemplateContext() {
		data[k] = v
	}
	return data
}

// renderOverride treats text as literal unless it contains a placeholder
// marker, in which case it is rendered against the recipient context.
func renderOverride(text string, data map[string]string) (string, error) {
	if !strings.Contains(text, placeholderMarker) {
		return text, nil
	}
	t, err := template.New("override").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
