package alert

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/airsentry/airsentry/internal/airquality"
	"github.com/airsentry/airsentry/internal/user"
)

// CityAQIProvider resolves a city name to its current observation.
type CityAQIProvider interface {
	GetCityAQI(ctx context.Context, name string) (*airquality.CityObservation, error)
}

// Notification is one alert to dispatch.
type Notification struct {
	To       string
	City     string
	AQI      *int
	Category string
	Measures []string
}

// Notifier dispatches alert notifications. Delivery is best-effort: the pass
// observes failures only for logging.
type Notifier interface {
	SendAlert(ctx context.Context, n Notification) error
}

// JobConfig holds configuration for the alert job.
type JobConfig struct {
	Users    user.Repository
	Provider CityAQIProvider
	Notifier Notifier
	Logger   zerolog.Logger
}

// Job runs the daily and change-detection alert passes.
type Job struct {
	users    user.Repository
	provider CityAQIProvider
	notifier Notifier
	logger   zerolog.Logger

	// dispatch tracks in-flight notification goroutines so shutdown and
	// tests can wait for them.
	dispatch sync.WaitGroup
}

// NewJob creates a new alert job.
func NewJob(cfg JobConfig) *Job {
	return &Job{
		users:    cfg.Users,
		provider: cfg.Provider,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
	}
}

// PassResult contains the bookkeeping of one alert pass.
type PassResult struct {
	Pass      string
	StartTime time.Time
	Duration  time.Duration
	Users     int
	Sent      int
	Skipped   int
	Failed    int
	Updated   int
}

// RunDaily executes the daily alert pass: every eligible user gets a
// notification for their city's current AQI, and the stored state is
// overwritten regardless of whether the reading changed.
func (j *Job) RunDaily(ctx context.Context) (*PassResult, error) {
	return j.runPass(ctx, "daily", false)
}

// RunChangeDetection executes the change-detection pass: only users whose
// city's AQI differs from their stored state get a notification. Users with
// no stored state yet are left for the daily pass to seed. State is still
// overwritten for every user whose fetch succeeded.
func (j *Job) RunChangeDetection(ctx context.Context) (*PassResult, error) {
	return j.runPass(ctx, "change-detection", true)
}

// Wait blocks until all in-flight notification dispatches have finished.
func (j *Job) Wait() {
	j.dispatch.Wait()
}

type cityReading struct {
	aqi *int
	err error
}

func (j *Job) runPass(ctx context.Context, pass string, gateOnChange bool) (*PassResult, error) {
	result := &PassResult{Pass: pass, StartTime: time.Now()}

	recipients, err := j.users.ListAlertRecipients(ctx)
	if err != nil {
		return nil, err
	}
	result.Users = len(recipients)

	// One provider fetch per city per pass, shared across its subscribers.
	readings := make(map[string]cityReading)
	var updates []user.AQIUpdate

	for _, u := range recipients {
		if gateOnChange && u.LastAQI == nil {
			result.Skipped++
			continue
		}

		reading, ok := readings[u.City]
		if !ok {
			reading = j.fetchCity(ctx, u.City)
			readings[u.City] = reading
		}
		if reading.err != nil {
			// A failing city never blocks the rest of the pass, and
			// the user's state is left untouched.
			j.logger.Error().
				Err(reading.err).
				Str("pass", pass).
				Str("city", u.City).
				Str("user_id", u.ID).
				Msg("skipping user, city AQI unavailable")
			result.Failed++
			continue
		}

		cur := reading.aqi
		if !gateOnChange || SignificantChange(u.LastAQI, cur) {
			j.send(u.Email, u.City, cur)
			result.Sent++
		} else {
			result.Skipped++
		}

		// State is overwritten whenever the fetch succeeded, even when
		// no notification went out.
		updates = append(updates, user.AQIUpdate{UserID: u.ID, AQI: cur})
	}

	if len(updates) > 0 {
		if err := j.users.UpdateLastAQIBatch(ctx, updates); err != nil {
			return nil, err
		}
	}
	result.Updated = len(updates)
	result.Duration = time.Since(result.StartTime)

	j.logger.Info().
		Str("pass", pass).
		Int("users", result.Users).
		Int("sent", result.Sent).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("updated", result.Updated).
		Dur("duration", result.Duration).
		Msg("alert pass completed")
	return result, nil
}

func (j *Job) fetchCity(ctx context.Context, name string) cityReading {
	obs, err := j.provider.GetCityAQI(ctx, name)
	if err != nil {
		return cityReading{err: err}
	}
	return cityReading{aqi: obs.Observation.AQI}
}

// send dispatches one notification without waiting for delivery. The send
// must never gate the pass's state transition.
func (j *Job) send(to, cityName string, aqi *int) {
	n := Notification{
		To:       to,
		City:     cityName,
		AQI:      aqi,
		Category: Classify(aqi),
		Measures: PreventiveMeasures(aqi),
	}

	j.dispatch.Add(1)
	go func() {
		defer j.dispatch.Done()
		// Detached from the pass context so a finished pass does not
		// cancel deliveries already in flight.
		if err := j.notifier.SendAlert(context.Background(), n); err != nil {
			j.logger.Error().
				Err(err).
				Str("to", to).
				Str("city", cityName).
				Msg("alert email failed")
		}
	}()
}
