package relay

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ppsprecycling/website/pkg/sanitizer"
)

const (
	DriverEmailJS  = "emailjs"
	DriverPostmark = "postmark"
	DriverSMTP     = "smtp"
	DriverDev      = "dev"
)

// Config selects and configures the delivery driver.
type Config struct {
	Driver   string `env:"RELAY_DRIVER" envDefault:"emailjs"`
	EmailJS  EmailJSConfig
	Postmark PostmarkConfig
	SMTP     SMTPConfig
	DevDir   string `env:"RELAY_DEV_DIR" envDefault:"./tmp/outbox"`
}

type EmailJSConfig struct {
	APIURL     string        `env:"EMAILJS_API_URL" envDefault:"https://api.emailjs.com/api/v1.0/email/send"`
	PrivateKey string        `env:"EMAILJS_PRIVATE_KEY"`
	Timeout    time.Duration `env:"EMAILJS_HTTP_TIMEOUT" envDefault:"20s"`
}

type PostmarkConfig struct {
	ServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	AccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	From         string `env:"POSTMARK_FROM"`
	To           string `env:"POSTMARK_TO" envDefault:"info@ppsprecycling.com"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	SSL      bool   `env:"SMTP_SSL" envDefault:"false"`
	From     string `env:"SMTP_FROM"`
	To       string `env:"SMTP_TO" envDefault:"info@ppsprecycling.com"`
}

// New builds the relay selected by cfg.Driver. renderer is required by the
// smtp and dev drivers.
func New(cfg Config, renderer Renderer) (Relay, error) {
	switch cfg.Driver {
	case "", DriverEmailJS:
		return NewEmailJS(
			WithEndpoint(cfg.EmailJS.APIURL),
			WithPrivateKey(cfg.EmailJS.PrivateKey),
			WithHTTPClient(&http.Client{Timeout: cfg.EmailJS.Timeout}),
		), nil
	case DriverPostmark:
		return NewPostmark(cfg.Postmark)
	case DriverSMTP:
		return NewSMTP(cfg.SMTP, renderer)
	case DriverDev:
		if renderer == nil {
			return nil, fmt.Errorf("%w: dev relay needs a renderer", ErrInvalidConfig)
		}
		return NewDev(cfg.DevDir, renderer), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func singleLine(s string) string {
	return sanitizer.SingleLine(s)
}
