package email

import "github.com/xenocrypt01/smile-report-dash/internal/observability/logger"

// LogSender es el sender de dev: no entrega nada, loguea el hand-off.
// Se usa cuando no hay SMTP configurado, para poder correr el flujo
// completo sin un relay real.
type LogSender struct{}

func (LogSender) Send(to, subject, htmlBody, textBody string) error {
	logger.Named("email").Info("mail hand-off (log only)",
		logger.Recipient(to),
		logger.String("subject", subject),
		logger.Int("html_bytes", len(htmlBody)),
		logger.Int("text_bytes", len(textBody)),
	)
	return nil
}
