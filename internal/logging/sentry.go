package logging

import (
	"reflect"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

var levelMap = map[logrus.Level]sentry.Level{
	logrus.TraceLevel: sentry.LevelDebug,
	logrus.DebugLevel: sentry.LevelDebug,
	logrus.InfoLevel:  sentry.LevelInfo,
	logrus.WarnLevel:  sentry.LevelWarning,
	logrus.ErrorLevel: sentry.LevelError,
	logrus.FatalLevel: sentry.LevelFatal,
	logrus.PanicLevel: sentry.LevelFatal,
}

type Converter func(entry *logrus.Entry, event *sentry.Event, hub *sentry.Hub)

type Option func(h *Hook)

// Hook is a logrus hook for sentry
// giving credits to: github.com/makasim/sentryhook
// had to copy-paste it here, as it was not handling
// the context for a hub properly when logging Error:
//
//		 it would panic in case logger.Error(...) was called without adding ctx
//	  the fix for that is in Fire(...) method
type Hook struct {
	hub       *sentry.Hub
	levels    []logrus.Level
	tags      map[string]string
	extra     map[string]interface{}
	converter Converter
}

func NewSentryHook(levels []logrus.Level, options ...Option) Hook {
	h := Hook{
		levels:    levels,
		hub:       sentry.CurrentHub(),
		converter: DefaultConverter,
	}

	for _, option := range options {
		option(&h)
	}

	return h
}

func WithTags(tags map[string]string) Option {
	return func(h *Hook) {
		h.tags = tags
	}
}

func WithExtra(extra map[string]interface{}) Option {
	return func(h *Hook) {
		h.extra = extra
	}
}

func WithConverter(c Converter) Option {
	return func(h *Hook) {
		h.converter = c
	}
}

func WithHub(hub *sentry.Hub) Option {
	return func(h *Hook) {
		h.hub = hub
	}
}

func (hook Hook) Levels() []logrus.Level {
	return hook.levels
}

func (hook Hook) Fire(entry *logrus.Entry) error {
	event := sentry.NewEvent()
	if len(hook.extra) > 0 {
		extra := sentry.Context{}
		for k, v := range hook.extra {
			extra[k] = v
		}
		event.Contexts["extra"] = extra
	}
	for k, v := range hook.tags {
		event.Tags[k] = v
	}

	var hub *sentry.Hub = nil
	if entry.Context != nil {
		hub = sentry.GetHubFromContext(entry.Context)
	}
	if hub == nil {
		hub = hook.hub
	}

	hook.converter(entry, event, hub)
	hub.CaptureEvent(event)

	return nil
}

func DefaultConverter(entry *logrus.Entry, event *sentry.Event, hub *sentry.Hub) {
	event.Level = levelMap[entry.Level]
	event.Message = entry.Message

	if len(entry.Data) > 0 {
		extra, ok := event.Contexts["extra"]
		if !ok {
			extra = sentry.Context{}
			event.Contexts["extra"] = extra
		}
		for k, v := range entry.Data {
			extra[k] = v
		}
	}

	if err, ok := entry.Data[logrus.ErrorKey].(error); ok {
		exception := sentry.Exception{
			Type:  reflect.TypeOf(err).String(),
			Value: err.Error(),
		}

		client := hub.Client()
		if client != nil && client.Options().AttachStacktrace {
			exception.Stacktrace = sentry.ExtractStacktrace(err)
		}

		event.Exception = []sentry.Exception{exception}
	}
}
