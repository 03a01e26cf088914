package email

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	texttpl "text/template"
)

// ReportVars son los campos que se interpolan en el cuerpo del reporte.
type ReportVars struct {
	TargetPhone      string
	TargetIdentifier string
	ReportReason     string
	SenderName       string
	ContactDetails   string
	SubmittedAt      string
}

// Templates contiene el par html/txt del correo de reporte.
type Templates struct {
	ReportHTML *template.Template
	ReportTXT  *texttpl.Template
}

const defaultReportHTML = `<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Security Report</h2>
    <p>Reporte de seguridad enviado por <strong>{{.SenderName}}</strong>.</p>
    <table cellpadding="6" style="border-collapse: collapse;">
      <tr><td><strong>Cuenta reportada</strong></td><td>{{.TargetPhone}}</td></tr>
      {{if .TargetIdentifier}}<tr><td><strong>Identificador adicional</strong></td><td>{{.TargetIdentifier}}</td></tr>{{end}}
      <tr><td><strong>Motivo</strong></td><td>{{.ReportReason}}</td></tr>
      <tr><td><strong>Contacto del reportante</strong></td><td>{{.ContactDetails}}</td></tr>
      <tr><td><strong>Fecha</strong></td><td>{{.SubmittedAt}}</td></tr>
    </table>
  </body>
</html>
`

const defaultReportTXT = `Security Report

Reporte de seguridad enviado por {{.SenderName}}.

Cuenta reportada: {{.TargetPhone}}
{{if .TargetIdentifier}}Identificador adicional: {{.TargetIdentifier}}
{{end}}Motivo: {{.ReportReason}}
Contacto del reportante: {{.ContactDetails}}
Fecha: {{.SubmittedAt}}
`

// DefaultTemplates retorna los templates embebidos en el binario.
func DefaultTemplates() *Templates {
	h := template.Must(template.New("report_html").Parse(defaultReportHTML))
	t := texttpl.Must(texttpl.New("report_txt").Parse(defaultReportTXT))
	return &Templates{ReportHTML: h, ReportTXT: t}
}

// LoadTemplates lee report.html y report.txt desde un directorio, para
// instalaciones que quieran personalizar el cuerpo del correo.
func LoadTemplates(dir string) (*Templates, error) {
	read := func(name string) (string, error) {
		b, err := os.ReadFile(filepath.Join(dir, name))
		return string(b), err
	}
	hs, err := read("report.html")
	if err != nil {
		return nil, err
	}
	ts, err := read("report.txt")
	if err != nil {
		return nil, err
	}
	h, err := template.New("report_html").Parse(hs)
	if err != nil {
		return nil, err
	}
	t, err := texttpl.New("report_txt").Parse(ts)
	if err != nil {
		return nil, err
	}
	return &Templates{ReportHTML: h, ReportTXT: t}, nil
}

// Render ejecuta ambos templates y retorna (html, txt).
func (t *Templates) Render(vars ReportVars) (string, string, error) {
	var hb, tb bytes.Buffer
	if err := t.ReportHTML.Execute(&hb, vars); err != nil {
		return "", "", err
	}
	if err := t.ReportTXT.Execute(&tb, vars); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}
