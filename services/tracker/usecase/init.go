package usecase

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/services/tracker"
	"github.com/piresc/payon/services/tracker/channel"
)

// TrackerUC implements the tracker use case interface
type TrackerUC struct {
	backendGW tracker.BackendGW
	diagRepo  tracker.DiagnosticRepo
	channel   *channel.Channel
	notifier  tracker.Notifier
	validate  *validator.Validate
	logger    *logger.ZapLogger

	mu     sync.Mutex
	subs   map[subKey]*tracking
	wg     sync.WaitGroup
	closed bool
}

// NewTrackerUC creates a new tracker use case
func NewTrackerUC(
	backendGW tracker.BackendGW,
	diagRepo tracker.DiagnosticRepo,
	ch *channel.Channel,
	notifier tracker.Notifier,
	l *logger.ZapLogger,
) *TrackerUC {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &TrackerUC{
		backendGW: backendGW,
		diagRepo:  diagRepo,
		channel:   ch,
		notifier:  notifier,
		validate:  validator.New(),
		logger:    l,
		subs:      make(map[subKey]*tracking),
	}
}

var _ tracker.TrackerUC = (*TrackerUC)(nil)

// timeNow is replaced in tests
var timeNow = time.Now
