package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"samplehub/internal/domain"
	"samplehub/internal/infrastructure/email"
	"samplehub/internal/infrastructure/metrics"
	"samplehub/internal/infrastructure/push"
)

type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
)

type ChannelStatus string

const (
	StatusSent    ChannelStatus = "sent"
	StatusSkipped ChannelStatus = "skipped"
	StatusFailed  ChannelStatus = "failed"
	// StatusPending marks a channel still running when the caller stopped
	// waiting. It keeps running in the background.
	StatusPending ChannelStatus = "pending"
)

type ChannelOutcome struct {
	Status ChannelStatus `json:"status"`
	Detail string        `json:"detail,omitempty"`
	Error  string        `json:"error,omitempty"`
}

type Report struct {
	EventID     string         `json:"eventId"`
	SampleID    string         `json:"sampleId"`
	RecipientID string         `json:"recipientId,omitempty"`
	InApp       ChannelOutcome `json:"inApp"`
	Push        ChannelOutcome `json:"push"`
	Email       ChannelOutcome `json:"email"`
	Complete    bool           `json:"complete"`
}

type SampleReader interface {
	FindByID(ctx context.Context, id string) (*domain.SampleRequest, error)
}

type BrandReader interface {
	FindByID(ctx context.Context, id string) (*domain.Brand, error)
}

type RepReader interface {
	FindByID(ctx context.Context, id string) (*domain.Rep, error)
}

type NotificationRepository interface {
	Insert(ctx context.Context, n domain.Notification) error
}

type PushTokenRepository interface {
	ListByUser(ctx context.Context, userID string) ([]string, error)
	Delete(ctx context.Context, token string) error
}

type PushSender interface {
	Send(ctx context.Context, tokens []string, msg push.Message) (*push.Result, error)
}

type EmailSender interface {
	Send(ctx context.Context, msg email.Message) error
}

type LivePublisher interface {
	Publish(userID string, payload []byte) int
}

type DispatcherConfig struct {
	// DispatchTimeout bounds how long Dispatch waits for the report.
	DispatchTimeout time.Duration
	// ChannelTimeout bounds each channel attempt.
	ChannelTimeout time.Duration
	// BrandStatuses lists the statuses whose events go to the brand instead of
	// the assigned rep.
	BrandStatuses map[domain.Status]bool
}

// Dispatcher fans one event out to the in-app, push and email channels. The
// channels run concurrently and fail independently.
type Dispatcher struct {
	samples       SampleReader
	brands        BrandReader
	reps          RepReader
	notifications NotificationRepository
	tokens        PushTokenRepository
	push          PushSender
	email         EmailSender
	live          LivePublisher
	cfg           DispatcherConfig
	logger        *zap.Logger
	now           func() time.Time
}

func NewDispatcher(
	samples SampleReader,
	brands BrandReader,
	reps RepReader,
	notifications NotificationRepository,
	tokens PushTokenRepository,
	pushSender PushSender,
	emailSender EmailSender,
	live LivePublisher,
	cfg DispatcherConfig,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		samples:       samples,
		brands:        brands,
		reps:          reps,
		notifications: notifications,
		tokens:        tokens,
		push:          pushSender,
		email:         emailSender,
		live:          live,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

// Dispatch never fails. Errors are captured per channel in the report. If ctx
// ends or DispatchTimeout passes first, unfinished channels are reported as
// pending and finish on their own.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.NotificationEvent) *Report {
	started := d.now()
	logger := d.logger.With(zap.String("eventId", event.ID), zap.String("sampleId", event.SampleID))
	report := &Report{EventID: event.ID, SampleID: event.SampleID}

	sample, recipient, err := d.resolve(ctx, event)
	if err != nil {
		logger.Warn("resolving notification recipient failed", zap.Error(err))
		failed := ChannelOutcome{Status: StatusFailed, Error: err.Error()}
		report.InApp, report.Push, report.Email = failed, failed, failed
		report.Complete = true
		for _, ch := range []Channel{ChannelInApp, ChannelPush, ChannelEmail} {
			metrics.NotificationChannel.WithLabelValues(string(ch), string(StatusFailed)).Inc()
		}
		return report
	}
	report.RecipientID = recipient.UserID

	content, err := Compose(event, *sample, *recipient)
	if err != nil {
		logger.Error("composing notification failed", zap.Error(err))
		content = Content{Title: "Sample update", Body: "Your sample request was updated."}
	}

	var (
		mu       sync.Mutex
		outcomes = map[Channel]ChannelOutcome{}
		wg       conc.WaitGroup
	)

	run := func(ch Channel, fn func(ctx context.Context) ChannelOutcome) {
		wg.Go(func() {
			chCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.channelTimeout())
			defer cancel()

			var (
				out ChannelOutcome
				pc  panics.Catcher
			)
			pc.Try(func() { out = fn(chCtx) })
			if r := pc.Recovered(); r != nil {
				out = ChannelOutcome{Status: StatusFailed, Error: r.AsError().Error()}
			}

			if out.Status == StatusFailed {
				logger.Warn("notification channel failed", zap.String("channel", string(ch)), zap.String("error", out.Error))
			}
			metrics.NotificationChannel.WithLabelValues(string(ch), string(out.Status)).Inc()

			mu.Lock()
			outcomes[ch] = out
			mu.Unlock()
		})
	}

	// In-app starts first; none of the channels waits for another.
	run(ChannelInApp, func(ctx context.Context) ChannelOutcome {
		return d.sendInApp(ctx, event, *recipient, content)
	})
	run(ChannelPush, func(ctx context.Context) ChannelOutcome {
		return d.sendPush(ctx, event, *recipient, content, logger)
	})
	run(ChannelEmail, func(ctx context.Context) ChannelOutcome {
		return d.sendEmail(ctx, *recipient, content)
	})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		metrics.DispatchDuration.Observe(d.now().Sub(started).Seconds())
		close(done)
	}()

	timer := time.NewTimer(d.dispatchTimeout())
	defer timer.Stop()

	select {
	case <-done:
	case <-ctx.Done():
	case <-timer.C:
	}

	mu.Lock()
	defer mu.Unlock()
	report.InApp = outcomeOrPending(outcomes, ChannelInApp)
	report.Push = outcomeOrPending(outcomes, ChannelPush)
	report.Email = outcomeOrPending(outcomes, ChannelEmail)
	report.Complete = len(outcomes) == 3

	logger.Info("notification dispatched",
		zap.String("recipientId", recipient.UserID),
		zap.String("inApp", string(report.InApp.Status)),
		zap.String("push", string(report.Push.Status)),
		zap.String("email", string(report.Email.Status)),
	)

	return report
}

// resolve picks the recipient: the assigned rep, or the brand for a status
// listed in BrandStatuses.
func (d *Dispatcher) resolve(ctx context.Context, event domain.NotificationEvent) (*domain.SampleRequest, *domain.Recipient, error) {
	sample, err := d.samples.FindByID(ctx, event.SampleID)
	if err != nil {
		return nil, nil, err
	}

	if event.Kind != domain.EventCreated && d.cfg.BrandStatuses[event.Status] {
		brand, err := d.brands.FindByID(ctx, sample.BrandID)
		if err != nil {
			return nil, nil, err
		}
		return sample, &domain.Recipient{UserID: brand.ID, Name: brand.Name, Email: brand.Email}, nil
	}

	rep, err := d.reps.FindByID(ctx, sample.RepID)
	if err != nil {
		return nil, nil, err
	}
	return sample, &domain.Recipient{UserID: rep.UserID, Name: rep.Name, Email: rep.Email}, nil
}

func (d *Dispatcher) sendInApp(ctx context.Context, event domain.NotificationEvent, recipient domain.Recipient, content Content) ChannelOutcome {
	n := domain.Notification{
		ID:              uuid.NewString(),
		UserID:          recipient.UserID,
		SampleRequestID: event.SampleID,
		Type:            string(event.Kind),
		Title:           content.Title,
		Body:            content.Body,
		CreatedAt:       d.now().UTC(),
	}
	if err := d.notifications.Insert(ctx, n); err != nil {
		return ChannelOutcome{Status: StatusFailed, Error: err.Error()}
	}

	payload, err := json.Marshal(livePayload{
		ID:        n.ID,
		Type:      n.Type,
		SampleID:  n.SampleRequestID,
		Status:    string(event.Status),
		Title:     n.Title,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return ChannelOutcome{Status: StatusSent, Detail: "stored"}
	}

	sockets := d.live.Publish(recipient.UserID, payload)
	return ChannelOutcome{Status: StatusSent, Detail: fmt.Sprintf("stored, %d live", sockets)}
}

func (d *Dispatcher) sendPush(ctx context.Context, event domain.NotificationEvent, recipient domain.Recipient, content Content, logger *zap.Logger) ChannelOutcome {
	tokens, err := d.tokens.ListByUser(ctx, recipient.UserID)
	if err != nil {
		return ChannelOutcome{Status: StatusFailed, Error: err.Error()}
	}
	if len(tokens) == 0 {
		return ChannelOutcome{Status: StatusSkipped, Detail: "no device tokens"}
	}

	result, err := d.push.Send(ctx, tokens, push.Message{
		Title: content.Title,
		Body:  content.Body,
		Data:  map[string]string{"sampleId": event.SampleID, "status": string(event.Status)},
	})
	if err != nil {
		return ChannelOutcome{Status: StatusFailed, Error: err.Error()}
	}

	for _, token := range result.Unregistered {
		if err := d.tokens.Delete(ctx, token); err != nil {
			logger.Warn("removing unregistered push token failed", zap.Error(err))
		}
	}

	return ChannelOutcome{Status: StatusSent, Detail: fmt.Sprintf("%d of %d devices", result.Accepted, len(tokens))}
}

func (d *Dispatcher) sendEmail(ctx context.Context, recipient domain.Recipient, content Content) ChannelOutcome {
	if recipient.Email == nil || *recipient.Email == "" {
		return ChannelOutcome{Status: StatusSkipped, Detail: "no email address"}
	}

	err := d.email.Send(ctx, email.Message{To: *recipient.Email, Subject: content.Title, HTML: content.HTML})
	if err != nil {
		return ChannelOutcome{Status: StatusFailed, Error: err.Error()}
	}
	return ChannelOutcome{Status: StatusSent}
}

func (d *Dispatcher) dispatchTimeout() time.Duration {
	if d.cfg.DispatchTimeout <= 0 {
		return 10 * time.Second
	}
	return d.cfg.DispatchTimeout
}

func (d *Dispatcher) channelTimeout() time.Duration {
	if d.cfg.ChannelTimeout <= 0 {
		return 30 * time.Second
	}
	return d.cfg.ChannelTimeout
}

type livePayload struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	SampleID  string    `json:"sampleId"`
	Status    string    `json:"status,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func outcomeOrPending(outcomes map[Channel]ChannelOutcome, ch Channel) ChannelOutcome {
	if out, ok := outcomes[ch]; ok {
		return out
	}
	return ChannelOutcome{Status: StatusPending}
}
