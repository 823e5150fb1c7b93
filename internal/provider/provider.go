// internal/provider/provider.go
package provider

import (
	"context"
	"log"
)

// SendProvider is the narrow interface to the external email/SMS transport.
// The dispatch engine only ever talks to this.
type SendProvider interface {
	SendEmail(ctx context.Context, to, subject, html string) error
	SendSMS(ctx context.Context, to, body string) error
}

// LogProvider is the development provider: it logs every message and always
// succeeds. Useful when no downstream gateway is configured.
type LogProvider struct{}

func (p *LogProvider) SendEmail(ctx context.Context, to, subject, html string) error {
	log.Printf("📧 [mock] email to %s: %q (%d bytes)", to, subject, len(html))
	return nil
}

func (p *LogProvider) SendSMS(ctx context.Context, to, body string) error {
	log.Printf("📱 [mock] SMS to %s: %q", to, body)
	return nil
}
