package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var emailTmpl = template.Must(template.ParseFS(templatesFS, "templates/email.html.tmpl"))

const subject = "GoShare File Sharing"

type messageData struct {
	From         string
	DownloadLink string
	DisplaySize  string
	Expires      string
}

func renderMessage(from, to, downloadLink string, sizeBytes int64, linkTTL time.Duration) (Message, error) {
	data := messageData{
		From:         from,
		DownloadLink: downloadLink,
		DisplaySize:  displaySize(sizeBytes),
		Expires:      expiryLabel(linkTTL),
	}

	var html bytes.Buffer
	if err := emailTmpl.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render email template: %w", err)
	}

	text := fmt.Sprintf("%s shared a file with you (%s).\nDownload it here: %s\nThe link expires in %s.",
		from, data.DisplaySize, downloadLink, data.Expires)

	return Message{
		From:    from,
		To:      to,
		Subject: subject,
		Text:    text,
		HTML:    html.String(),
	}, nil
}

// displaySize renders the size the way the notification always has:
// kilobytes with two decimals.
func displaySize(sizeBytes int64) string {
	return fmt.Sprintf("%.2f KB", float64(sizeBytes)/1000)
}

func expiryLabel(ttl time.Duration) string {
	hours := int(ttl.Hours())
	if hours <= 0 {
		hours = 1
	}
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
