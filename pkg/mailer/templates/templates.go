package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

const welcomeHTML = `<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #333;">
    <h2>Welcome{{if .DisplayName}}, {{.DisplayName}}{{end}}!</h2>
    <p>Your account is ready. Log in and publish your first post.</p>
  </body>
</html>`

var registry = map[string]*template.Template{
	"welcome": template.Must(template.New("welcome").Parse(welcomeHTML)),
}

var subjects = map[string]string{
	"welcome": "Welcome to go-microblog",
}

// Render produces subject and HTML body for a named template.
func Render(name string, data map[string]any) (subject, html string, err error) {
	tpl, ok := registry[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render template %q: %w", name, err)
	}
	subject, ok = subjects[name]
	if !ok {
		subject = "Notification"
	}
	return subject, buf.String(), nil
}
