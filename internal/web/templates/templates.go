// Package templates holds the HTML fragments swapped in by HTMX clients.
//
// Components are written in .templ files; the *_templ.go files are generated.
package templates

//go:generate templ generate

// UploadSummary is the view model for one processed upload.
type UploadSummary struct {
	UploadID          string
	FileName          string
	Accepted          bool
	Message           string
	Code              string
	RecordsProcessed  int
	TotalRows         int
	DefaultedReadings int
	Errors            []string
}
