package main

import (
	"github.com/ppsprecycling/website/internal/contact"
	"github.com/ppsprecycling/website/pkg/cookie"
	"github.com/ppsprecycling/website/pkg/httpserver"
	"github.com/ppsprecycling/website/pkg/logger"
	"github.com/ppsprecycling/website/pkg/redis"
	"github.com/ppsprecycling/website/pkg/relay"
	"github.com/ppsprecycling/website/pkg/throttle"
)

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"ppsp-site"`

	// ClientIPHeaders lists the proxy headers trusted for the client address.
	ClientIPHeaders []string `env:"CLIENT_IP_HEADERS" envDefault:"CF-Connecting-IP,X-Forwarded-For,X-Real-IP" envSeparator:","`

	Log      logger.Config
	HTTP     httpserver.Config
	Cookie   cookie.Config
	Redis    redis.Config
	Relay    relay.Config
	Contact  contact.Config
	Throttle throttle.Config
}
