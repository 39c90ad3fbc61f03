// Package logger arma el logger estructurado de la aplicación sobre zerolog.
// Todas las entradas llevan timestamp y el nombre del servicio; los casos de
// uso agregan sus propios campos (voucher_id, company_id, filename).
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env     string // development -> consola legible; cualquier otro -> JSON
	Level   string // trace, debug, info, warn, error (default info)
	Service string // nombre del servicio en cada entrada; vacío = sin campo
}

// Logger wrapper sobre zerolog para inyección y consistencia.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger raíz según la configuración. También redirige el logger
// global de zerolog, para librerías que escriben por esa vía.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	c := zerolog.New(w).Level(level).With().Timestamp()
	if cfg.Service != "" {
		c = c.Str("service", cfg.Service)
	}
	zl := c.Logger()
	log.Logger = zl

	return &Logger{zl: zl}
}

// Component deriva un sublogger etiquetado con el componente que lo usa
// (ej. "sicore", "withholding").
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

// Trace a Fatal delegan en zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos arbitrarios.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Zerolog expone el logger interno por si se necesita la API directa.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
