package email

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/gomail.v2"

	"srdashboard/internal/shared/logger"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// Configured reports whether enough is set to attempt delivery.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

func (c SMTPConfig) from() string {
	addr := c.FromAddress
	if addr == "" {
		addr = c.Username
	}
	if c.FromName == "" {
		return addr
	}
	return fmt.Sprintf("%q <%s>", c.FromName, addr)
}

// sender abstracts gomail.Dialer so delivery can be observed in tests.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier sends HTML mail with a plain-text alternative over SMTP.
type SMTPNotifier struct {
	config SMTPConfig
	dialer sender
	text   *bluemonday.Policy
	logger logger.Interface
}

func NewSMTPNotifier(config SMTPConfig, logger logger.Interface) *SMTPNotifier {
	return &SMTPNotifier{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		text:   bluemonday.StrictPolicy(),
		logger: logger,
	}
}

// Send delivers one message. An unconfigured transport is reported as not
// delivered without an error.
func (s *SMTPNotifier) Send(ctx context.Context, to, subject, htmlBody string) (bool, error) {
	if !s.config.Configured() {
		s.logger.Warnw("smtp not configured, skipping email", "to", to, "subject", subject)
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.from())
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", s.plainText(htmlBody))
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return false, fmt.Errorf("failed to send email: %w", err)
	}

	return true, nil
}

var blankLines = regexp.MustCompile(`\n\s*\n+`)

// plainText strips markup from the HTML body for clients that refuse HTML.
func (s *SMTPNotifier) plainText(htmlBody string) string {
	withBreaks := strings.NewReplacer("</p>", "</p>\n", "<br>", "\n", "</tr>", "</tr>\n", "</h2>", "</h2>\n").Replace(htmlBody)
	text := html.UnescapeString(s.text.Sanitize(withBreaks))
	return strings.TrimSpace(blankLines.ReplaceAllString(text, "\n\n"))
}

// LogNotifier stands in when notifications are disabled; it only logs.
type LogNotifier struct {
	logger logger.Interface
}

func NewLogNotifier(logger logger.Interface) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, to, subject, htmlBody string) (bool, error) {
	n.logger.Infow("email notification suppressed", "to", to, "subject", subject)
	return false, nil
}
