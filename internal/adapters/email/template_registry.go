package email

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	texttemplate "text/template"

	"outreachengine/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// templateRegistry implements domain.TemplateRegistry using embedded template
// files named after the original layout: <kind>_<language>.html for bodies and
// subject_<kind>_<language>.txt for subjects.
type templateRegistry struct{}

// NewTemplateRegistry returns a TemplateRegistry backed by the embedded
// templates folder.
func NewTemplateRegistry() domain.TemplateRegistry {
	return &templateRegistry{}
}

func (r *templateRegistry) Render(kind domain.TargetKind, language string, data map[string]string) (subject, body string, err error) {
	subjectName := fmt.Sprintf("subject_%s_%s.txt", kind, language)
	bodyName := fmt.Sprintf("%s_%s.html", kind, language)

	subject, err = r.renderFile(subjectName, data, false)
	if err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}
	body, err = r.renderFile(bodyName, data, true)
	if err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}
	return strings.TrimSpace(subject), body, nil
}

func (r *templateRegistry) renderFile(name string, data map[string]string, html bool) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
		}
		return "", err
	}
	var buf bytes.Buffer
	if html {
		t, err := template.New(name).Parse(string(raw))
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	} else {
		t, err := texttemplate.New(name).Parse(string(raw))
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
