package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mailtpl "github.com/bhudevswayam/service-app/pkg/mailer/templates"
)

// ErrPermanent marks a job that will never succeed and should not be requeued.
var ErrPermanent = errors.New("permanent email job failure")

// Process renders job (when it names a template) and hands it to s.
// Rendering and validation failures wrap ErrPermanent; delivery failures do not.
func Process(ctx context.Context, job EmailJob, s Sender) error {
	if strings.TrimSpace(job.To) == "" {
		return fmt.Errorf("%w: missing recipient", ErrPermanent)
	}
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrPermanent, job.Template, err)
		}
	}
	if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: empty message", ErrPermanent)
	}
	return s.Send(ctx, job.To, subject, text, html)
}
