package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"outreachengine/internal/domain"
)

// SMTPConfig holds the transport credentials for the SMTP channel. Account
// and Password always authenticate the session; the From display identity on
// individual messages is independent of them.
type SMTPConfig struct {
	Host     string
	Port     int
	Account  string
	Password string
	Timeout  time.Duration
}

func (c SMTPConfig) validate() error {
	if c.Account == "" || c.Password == "" {
		return fmt.Errorf("smtp account and password must be configured")
	}
	if c.Host == "" {
		return fmt.Errorf("smtp host must be configured")
	}
	return nil
}

type smtpDialer struct {
	cfg SMTPConfig
}

// NewSMTPDialer returns a ChannelDialer for a STARTTLS SMTP endpoint.
// Missing credentials are a construction-time error, not a per-send one.
func NewSMTPDialer(cfg SMTPConfig) (domain.ChannelDialer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &smtpDialer{cfg: cfg}, nil
}

func (d *smtpDialer) Open(ctx context.Context) (domain.Channel, error) {
	return &smtpChannel{cfg: d.cfg}, nil
}

// smtpChannel drives one SMTP session. The connection is established lazily
// on the first send and reused across recipients; a transport failure drops
// it so the next attempt redials.
type smtpChannel struct {
	cfg    SMTPConfig
	conn   net.Conn
	client *smtp.Client
}

func (c *smtpChannel) Send(ctx context.Context, msg *domain.Message) error {
	if err := c.ensureClient(ctx); err != nil {
		return err
	}
	if err := c.transmit(msg); err != nil {
		c.drop()
		return err
	}
	return nil
}

// Close ends the session with QUIT. The exchange runs under the transport
// timeout so a stalled server cannot hang the campaign's deferred close; if
// QUIT fails the socket is torn down directly.
func (c *smtpChannel) Close() error {
	if c.client == nil {
		return nil
	}
	if c.conn != nil {
		c.conn.SetDeadline(time.Now().Add(c.cfg.Timeout))
	}
	err := c.client.Quit()
	if err != nil {
		c.client.Close()
	}
	c.client = nil
	c.conn = nil
	return err
}

// ensureClient runs the Connecting and Authenticating phases: dial with
// timeout, STARTTLS, then authenticate with the fixed account credential.
func (c *smtpChannel) ensureClient(ctx context.Context) error {
	if c.client != nil {
		return nil
	}

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	dialer := &net.Dialer{Timeout: c.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return classifyNetworkError(err)
	}
	conn.SetDeadline(time.Now().Add(c.cfg.Timeout))

	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		conn.Close()
		return classifyNetworkError(err)
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: c.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			client.Close()
			return classifyNetworkError(err)
		}
	}

	auth := smtp.PlainAuth("", c.cfg.Account, c.cfg.Password, c.cfg.Host)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return &domain.DeliveryError{Kind: domain.FailureAuthentication, Err: err}
	}

	// Clear the dial deadline; per-command writes get fresh ones below.
	conn.SetDeadline(time.Time{})
	c.client = client
	c.conn = conn
	return nil
}

// transmit runs the Transmitting phase over an authenticated session.
func (c *smtpChannel) transmit(msg *domain.Message) error {
	c.conn.SetDeadline(time.Now().Add(c.cfg.Timeout))
	defer c.conn.SetDeadline(time.Time{})

	if err := c.client.Mail(c.cfg.Account); err != nil {
		return classifyNetworkError(err)
	}
	if err := c.client.Rcpt(msg.To); err != nil {
		return classifyNetworkError(err)
	}
	wc, err := c.client.Data()
	if err != nil {
		return classifyNetworkError(err)
	}
	if _, err := wc.Write(composeMessage(msg)); err != nil {
		wc.Close()
		return classifyNetworkError(err)
	}
	if err := wc.Close(); err != nil {
		return classifyNetworkError(err)
	}
	return nil
}

func (c *smtpChannel) drop() {
	if c.client != nil {
		c.client.Close()
		c.client = nil
		c.conn = nil
	}
}

// composeMessage builds the RFC 5322 message. The content type is selected
// automatically: bodies containing an opening html tag are sent as rich text.
func composeMessage(msg *domain.Message) []byte {
	contentType := "text/plain; charset=UTF-8"
	if isHTML(msg.Body) {
		contentType = "text/html; charset=UTF-8"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.Sender.Display())
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

func isHTML(body string) bool {
	return strings.Contains(strings.ToLower(body), "<html")
}
