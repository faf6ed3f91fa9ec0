// Package templates holds the HTML e-mail templates, embedded in the binary.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

const BookingEmail = "booking_email.html"

func Parse() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}
