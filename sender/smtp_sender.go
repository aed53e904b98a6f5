package sender

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"checkout-service/models"
)

// SMTPConfig describes the authenticated relay used for outgoing mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	// ImplicitTLS opens the connection inside TLS (port 465). When false the
	// session starts in plaintext and must upgrade with STARTTLS.
	ImplicitTLS bool
}

type Option func(*SMTPSender)

// WithTLSConfig overrides the TLS configuration. A nil config disables TLS
// entirely; only useful against a local test relay.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(s *SMTPSender) {
		s.tlsConfig = cfg
	}
}

// WithDialer replaces the TCP dialer.
func WithDialer(d Dialer) Option {
	return func(s *SMTPSender) {
		if d != nil {
			s.dialer = d
		}
	}
}

// WithClock sets the source of the Date header and SendResult.SentAt.
func WithClock(now func() time.Time) Option {
	return func(s *SMTPSender) {
		if now != nil {
			s.now = now
		}
	}
}

// Dialer abstracts net.Dialer to simplify testing.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// SMTPSender delivers one message per connection: dial, authenticate,
// transmit, close.
type SMTPSender struct {
	host        string
	port        int
	from        mail.Address
	auth        smtp.Auth
	implicitTLS bool
	tlsConfig   *tls.Config
	dialer      Dialer
	now         func() time.Time
}

func NewSMTPSender(cfg SMTPConfig, opts ...Option) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp sender: host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("smtp sender: invalid port %d", cfg.Port)
	}

	s := &SMTPSender{
		host:        cfg.Host,
		port:        cfg.Port,
		from:        mail.Address{Name: cfg.FromName, Address: strings.TrimSpace(cfg.Username)},
		implicitTLS: cfg.ImplicitTLS,
		tlsConfig: &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		},
		dialer: &net.Dialer{Timeout: 30 * time.Second},
		now:    time.Now,
	}
	if s.from.Address != "" {
		s.auth = smtp.PlainAuth("", s.from.Address, cfg.Password, cfg.Host)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// From is the address placed in the From header and the envelope.
func (s *SMTPSender) From() string {
	return s.from.String()
}

func (s *SMTPSender) Send(ctx context.Context, msg *models.EmailMessage) (SendResult, error) {
	if msg == nil {
		return SendResult{}, errors.New("smtp sender: message is required")
	}
	if strings.TrimSpace(msg.To) == "" {
		return SendResult{}, errors.New("smtp sender: recipient is required")
	}

	rcpt, err := mail.ParseAddress(msg.To)
	if err != nil {
		return SendResult{}, fmt.Errorf("smtp sender: invalid recipient: %w", err)
	}

	from := s.from
	if msg.From != "" {
		parsed, err := mail.ParseAddress(msg.From)
		if err != nil {
			return SendResult{}, fmt.Errorf("smtp sender: invalid from address: %w", err)
		}
		from = *parsed
	}

	sentAt := s.now()
	messageID := newMessageID(from.Address)
	body, err := buildMessage(msg, from, messageID, sentAt)
	if err != nil {
		return SendResult{}, err
	}

	if err := s.deliver(ctx, from.Address, rcpt.Address, body); err != nil {
		return SendResult{}, err
	}

	return SendResult{MessageID: messageID, SentAt: sentAt}, nil
}

func (s *SMTPSender) deliver(ctx context.Context, from, to string, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp sender: dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer close(done)

	if s.implicitTLS && s.tlsConfig != nil {
		tlsConn := tls.Client(conn, s.sessionTLSConfig())
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			return fmt.Errorf("smtp sender: tls handshake: %w", err)
		}
		conn = tlsConn
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("smtp sender: new client: %w", err)
	}
	defer client.Close()

	if err := client.Hello("localhost"); err != nil {
		return fmt.Errorf("smtp sender: hello: %w", err)
	}

	if !s.implicitTLS && s.tlsConfig != nil {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return fmt.Errorf("smtp sender: %w: STARTTLS not offered", ErrInsecureRelay)
		}
		if err := client.StartTLS(s.sessionTLSConfig()); err != nil {
			return fmt.Errorf("smtp sender: starttls: %w", err)
		}
	}

	if s.auth != nil {
		if ok, _ := client.Extension("AUTH"); !ok {
			return fmt.Errorf("smtp sender: %w: AUTH not offered", ErrInsecureRelay)
		}
		if err := client.Auth(s.auth); err != nil {
			if code, _ := classifySMTPError(err); code == 535 || code == 534 {
				return fmt.Errorf("smtp sender: %w: %v", ErrAuthRejected, err)
			}
			return fmt.Errorf("smtp sender: auth: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp sender: mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp sender: rcpt to %s: %w", to, err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp sender: data: %w", err)
	}
	if _, err := writer.Write(message); err != nil {
		_ = writer.Close()
		return fmt.Errorf("smtp sender: data write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp sender: data close: %w", err)
	}

	if err := client.Quit(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("smtp sender: quit: %w", err)
	}

	return ctx.Err()
}

func (s *SMTPSender) sessionTLSConfig() *tls.Config {
	cfg := s.tlsConfig.Clone()
	if cfg.ServerName == "" {
		cfg.ServerName = s.host
	}
	return cfg
}

// classifySMTPError extracts the reply code from a relay error, if any.
func classifySMTPError(err error) (int, string) {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return tpErr.Code, strings.TrimSpace(tpErr.Msg)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return 0, "smtp: timeout"
	}

	return 0, ""
}
