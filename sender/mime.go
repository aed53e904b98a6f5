package sender

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"checkout-service/models"

	"github.com/google/uuid"
)

const base64LineLength = 76

func newMessageID(from string) string {
	domain := "localhost"
	if _, d, ok := strings.Cut(from, "@"); ok && d != "" {
		domain = d
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

// buildMessage renders msg as an RFC 5322 message. With an attachment the
// result is multipart/mixed with a UTF-8 text part followed by the file.
func buildMessage(msg *models.EmailMessage, from mail.Address, messageID string, date time.Time) ([]byte, error) {
	var buf bytes.Buffer

	writeHeader(&buf, "From", from.String())
	writeHeader(&buf, "To", sanitizeHeaderValue(msg.To))
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", sanitizeHeaderValue(msg.Subject)))
	writeHeader(&buf, "Date", date.UTC().Format(time.RFC1123Z))
	writeHeader(&buf, "Message-ID", messageID)
	writeHeader(&buf, "MIME-Version", "1.0")

	if msg.Attachment == nil {
		writeHeader(&buf, "Content-Type", "text/plain; charset=UTF-8")
		writeHeader(&buf, "Content-Transfer-Encoding", "quoted-printable")
		buf.WriteString("\r\n")
		if err := writeQuotedPrintable(&buf, msg.BodyText); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if len(msg.Attachment.Data) == 0 {
		return nil, errors.New("smtp sender: attachment is empty")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	writeHeader(&buf, "Content-Type", mime.FormatMediaType("multipart/mixed", map[string]string{"boundary": mw.Boundary()}))
	buf.WriteString("\r\n")

	textPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=UTF-8"},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return nil, fmt.Errorf("create text part: %w", err)
	}
	if err := writeQuotedPrintable(textPart, msg.BodyText); err != nil {
		return nil, err
	}

	filename := sanitizeHeaderValue(msg.Attachment.Filename)
	contentType := msg.Attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filePart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {mime.FormatMediaType(contentType, map[string]string{"name": filename})},
		"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": filename})},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, fmt.Errorf("create attachment part: %w", err)
	}
	if err := writeBase64Lines(filePart, msg.Attachment.Data); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	buf.Write(body.Bytes())
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

func writeQuotedPrintable(w io.Writer, text string) error {
	qp := quotedprintable.NewWriter(w)
	if _, err := qp.Write([]byte(normalizeBody(text))); err != nil {
		return fmt.Errorf("encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return fmt.Errorf("encode body: %w", err)
	}
	return nil
}

func writeBase64Lines(w io.Writer, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 0 {
		n := base64LineLength
		if len(encoded) < n {
			n = len(encoded)
		}
		if _, err := w.Write([]byte(encoded[:n] + "\r\n")); err != nil {
			return fmt.Errorf("encode attachment: %w", err)
		}
		encoded = encoded[n:]
	}
	return nil
}

func normalizeBody(body string) string {
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.ReplaceAll(normalized, "\n", "\r\n")
}

func sanitizeHeaderValue(value string) string {
	clean := strings.ReplaceAll(value, "\r", " ")
	clean = strings.ReplaceAll(clean, "\n", " ")
	return strings.TrimSpace(clean)
}
