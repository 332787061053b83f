package contact

import "time"

// Config holds the relay secrets and the timings of the contact pipeline.
// The secrets are optional at startup; a missing one fails submissions with
// ErrConfigMissing instead.
type Config struct {
	ServiceID  string `env:"EMAILJS_SERVICE_ID"`
	TemplateID string `env:"EMAILJS_TEMPLATE_ID"`
	PublicKey  string `env:"EMAILJS_PUBLIC_KEY"`

	Cooldown        time.Duration `env:"CONTACT_COOLDOWN" envDefault:"30s"`
	SuccessDisplay  time.Duration `env:"CONTACT_SUCCESS_DISPLAY" envDefault:"5s"`
	DeliveryTimeout time.Duration `env:"CONTACT_DELIVERY_TIMEOUT" envDefault:"15s"`
	MaxVisitors     int           `env:"CONTACT_MAX_VISITORS" envDefault:"10000"`
}

// Secrets returns the relay credentials.
func (c Config) Secrets() Secrets {
	return Secrets{
		ServiceID:  c.ServiceID,
		TemplateID: c.TemplateID,
		PublicKey:  c.PublicKey,
	}
}

// Secrets are the three relay credentials.
type Secrets struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
}

// Missing lists the names of the absent credentials.
func (s Secrets) Missing() []string {
	var missing []string
	if s.ServiceID == "" {
		missing = append(missing, "service_id")
	}
	if s.TemplateID == "" {
		missing = append(missing, "template_id")
	}
	if s.PublicKey == "" {
		missing = append(missing, "public_key")
	}
	return missing
}

// Complete reports whether all credentials are present.
func (s Secrets) Complete() bool {
	return len(s.Missing()) == 0
}
