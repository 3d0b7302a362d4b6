package templates

import "time"

// Branding holds the per-deployment values every email shows.
type Branding struct {
	CompanyName string
	AppName     string
	SupportURL  string
	LoginURL    string
}

type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithBusinessName(name string) Option {
	return func(d *EmailData) { d.BusinessName = name }
}

func NewBaseEmailData(b Branding, typ, name, email, tenantID, role string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
		TenantID:       tenantID,
		Role:           role,
		CompanyName:    b.CompanyName,
		AppName:        b.AppName,
		SupportURL:     b.SupportURL,
		LoginURL:       b.LoginURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewWelcomeData picks the regular or business welcome template by role.
func NewWelcomeData(b Branding, name, email, tenantID, role string, opts ...Option) (string, map[string]any) {
	typ := Welcome
	if role == "business" {
		typ = WelcomeBusiness
	}
	return typ, ToMap(NewBaseEmailData(b, typ, name, email, tenantID, role, opts...))
}
