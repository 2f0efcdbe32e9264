package handler

import (
	"github.com/studyhub/internal/contact"
	"go.uber.org/zap"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	content       contentProvider
	contacts      contactTargets
	previewSecret string
	logger        *zap.Logger
}

type contactTargets struct {
	defaultTarget     contact.Target
	studyAbroadTarget contact.Target
}

// Options configures the handler set.
type Options struct {
	PreviewSecret      string
	DefaultContact     contact.Target
	StudyAbroadContact contact.Target
	Logger             *zap.Logger
}

// NewAPI constructs a handler set around a content provider.
func NewAPI(content contentProvider, opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		content: content,
		contacts: contactTargets{
			defaultTarget:     opts.DefaultContact,
			studyAbroadTarget: opts.StudyAbroadContact,
		},
		previewSecret: opts.PreviewSecret,
		logger:        logger,
	}
}
