// Package console logs actor lifecycle events to a terminal.
package console

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/super-flat/actornode/actors"
)

// NewLogger returns a text logger writing to out, colorized when colored is set
func NewLogger(out io.Writer, colored bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:      colored,
		DisableColors:    !colored,
		FullTimestamp:    true,
		DisableSorting:   false,
		QuoteEmptyFields: true,
	})
	return logger
}

// NewListener returns a Listener logging every lifecycle event to logger.
// Lifecycle events log at info, failures at error and drops at warning.
func NewListener(logger logrus.FieldLogger) actors.Listener {
	log := logger.WithField("component", "console")
	return actors.Listener{
		OnSpawned: func(e actors.SpawnedEvent) {
			log.WithField("address", e.Address).
				WithField("state", describe(e.State)).
				Info("[actor] spawned")
		},
		OnStateChanged: func(e actors.StateChangedEvent) {
			log.WithField("address", e.Address).
				WithField("previous", describe(e.Previous)).
				WithField("current", describe(e.Current)).
				Info("[actor] state changed")
		},
		OnStatusChanged: func(e actors.StatusChangedEvent) {
			log.WithField("address", e.Address).
				WithField("previous", e.Previous.String()).
				WithField("current", e.Current.String()).
				Debug("[actor] status changed")
		},
		OnMessageSent: func(e actors.MessageSentEvent) {
			log.WithField("address", e.Address).
				WithField("message", describe(e.Message)).
				WithField("reply", e.WithReply).
				Info("[actor] message sent")
		},
		OnHandlerFailed: func(e actors.HandlerFailedEvent) {
			log.WithField("address", e.Address).
				WithField("message", describe(e.Message)).
				WithError(e.Err).
				Error("[actor] handler failed")
		},
		OnDropped: func(e actors.DroppedEvent) {
			log.WithField("address", e.Address).
				WithField("reason", e.Reason).
				Warn("[actor] message dropped")
		},
	}
}

func describe(v any) string {
	return fmt.Sprintf("%+v", v)
}
