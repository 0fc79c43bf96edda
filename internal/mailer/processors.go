package mailer

import (
	"context"
	"encoding/json"

	"github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/jobs"
	"github.com/estilosboom/boom-backend/pkg/logger"
	"github.com/estilosboom/boom-backend/pkg/mail"
)

// Processors turns queue jobs into outbound mail. Each handler performs
// exactly one send attempt; a transport failure propagates so the queue's
// retry policy applies. A retried job may therefore send twice.
type Processors struct {
	sender mail.Sender
	logg   *logger.Logger
}

// ProcessorsParams packages the processor dependencies.
type ProcessorsParams struct {
	Sender mail.Sender
	Logger *logger.Logger
}

func NewProcessors(params ProcessorsParams) (*Processors, error) {
	if params.Sender == nil {
		return nil, errors.New(errors.CodeInternal, "mail sender required")
	}
	if params.Logger == nil {
		return nil, errors.New(errors.CodeInternal, "logger required")
	}
	return &Processors{sender: params.Sender, logg: params.Logger}, nil
}

// RegisterHandlers binds the mail handlers to their queue job names.
func (p *Processors) RegisterHandlers(worker *jobs.Worker) error {
	if err := worker.Register(jobs.JobSendPasswordResetLink, p.HandlePasswordResetLink); err != nil {
		return err
	}
	return worker.Register(jobs.JobSendTemporalCredentials, p.HandleTemporalCredentials)
}

// HandlePasswordResetLink sends the provider-hosted reset link to the user.
func (p *Processors) HandlePasswordResetLink(ctx context.Context, payload json.RawMessage) error {
	var body PasswordResetPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "decode password reset payload")
	}
	if body.Email == "" || body.ResetLink == "" {
		return errors.New(errors.CodeInternal, "password reset payload missing email or link")
	}

	subject, text, html, err := renderPasswordReset(body)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "render password reset mail")
	}

	if err := p.sender.Send(ctx, mail.Message{
		To:      body.Email,
		Subject: subject,
		Text:    text,
		HTML:    html,
	}); err != nil {
		return errors.Wrap(errors.CodeProvider, err, "send password reset mail")
	}

	p.logg.Info(p.logg.WithField(ctx, "recipient", body.Email), "password reset mail sent")
	return nil
}

// HandleTemporalCredentials delivers the admin-provisioned temporary password.
func (p *Processors) HandleTemporalCredentials(ctx context.Context, payload json.RawMessage) error {
	var body TempCredentialsPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "decode temp credentials payload")
	}
	if body.Email == "" || body.TempPassword == "" {
		return errors.New(errors.CodeInternal, "temp credentials payload missing email or password")
	}

	subject, text, html, err := renderTempCredentials(body)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "render temp credentials mail")
	}

	if err := p.sender.Send(ctx, mail.Message{
		To:      body.Email,
		Subject: subject,
		Text:    text,
		HTML:    html,
	}); err != nil {
		return errors.Wrap(errors.CodeProvider, err, "send temp credentials mail")
	}

	p.logg.Info(p.logg.WithField(ctx, "recipient", body.Email), "temporal credentials mail sent")
	return nil
}
