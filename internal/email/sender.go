package email

import (
	"context"
	"errors"
)

// ErrDisabled indica que no hay servidor SMTP configurado.
var ErrDisabled = errors.New("email sender disabled")

// Sender define la interfaz para envio de correos transaccionales.
type Sender interface {
	SendWelcome(ctx context.Context, toEmail, firstName string) error
}

type disabledSender struct{}

func NewDisabledSender() Sender {
	return disabledSender{}
}

func (disabledSender) SendWelcome(_ context.Context, _, _ string) error {
	return ErrDisabled
}
