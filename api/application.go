package api

import (
	"github.com/paint-mix/api/datastore"
	"github.com/paint-mix/api/email"
	"github.com/paint-mix/api/mixing"
)

type Config struct {
	HTTPPort          string
	DatabaseType      string
	DatabaseUser      string
	DatabasePassword  string
	DatabaseName      string
	SSLMode           string
	JwtSecret         string
	JwtAccessDuration int // seconds
	JwtDomain         string
	AllowedOrigins    []string
	BaseURL           string
	DevMode           bool
}

type Application struct {
	Config       Config
	UserRepo     datastore.UserRepository
	TokenRepo    datastore.TokenRepository
	SettingsRepo datastore.SettingsRepository
	PaintRepo    datastore.PaintRepository
	Mailer       email.Mailer
	Mixer        *mixing.Service
}
