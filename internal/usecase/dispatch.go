// File: internal/usecase/dispatch.go
package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-media-bots/internal/domain"
	"telegram-media-bots/internal/domain/model"
	"telegram-media-bots/internal/domain/ports/adapter"
	"telegram-media-bots/internal/infra/metrics"
)

// MaxInlineChars is the largest result delivered as a plain chat message.
// Anything longer is wrapped in HTML, uploaded, and delivered as a link.
const MaxInlineChars = 4000

// Delivery is the outcome of dispatching one successful result.
type Delivery struct {
	Text    string
	FileURL string
}

// Inline reports whether the result fits a plain message.
func (d Delivery) Inline() bool { return d.FileURL == "" }

// Dispatcher decides between inline delivery and the upload path. The
// upload path is gated by a health probe and a refresh-aware credential;
// each gate failing produces a distinguishable error.
type Dispatcher struct {
	files  adapter.FileSharingAPI
	tokens adapter.TokenSource
	tmpDir string
	log    *zerolog.Logger
}

func NewDispatcher(files adapter.FileSharingAPI, tokens adapter.TokenSource, log *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		files:  files,
		tokens: tokens,
		tmpDir: os.TempDir(),
		log:    log,
	}
}

func (d *Dispatcher) Deliver(ctx context.Context, title, result string) (Delivery, error) {
	if utf8.RuneCountInString(result) <= MaxInlineChars {
		return Delivery{Text: result}, nil
	}

	if err := d.files.CheckHealth(ctx); err != nil {
		metrics.IncUpload("error")
		return Delivery{}, err
	}

	cred, err := d.tokens.Credential(ctx, model.DefaultRefreshThreshold)
	if err != nil {
		metrics.IncUpload("error")
		return Delivery{}, err
	}

	path := filepath.Join(d.tmpDir, uuid.NewString()+".htm")
	if err := os.WriteFile(path, []byte(wrapHTML(title, result)), 0o600); err != nil {
		metrics.IncUpload("error")
		return Delivery{}, fmt.Errorf("%w: write temp file: %v", domain.ErrUploadFailure, err)
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			d.log.Warn().Str("path", path).Err(err).Msg("temp file not removed")
		}
	}()

	url, err := d.files.Upload(ctx, cred.Bearer(), path)
	if err != nil {
		metrics.IncUpload("error")
		return Delivery{}, err
	}
	metrics.IncUpload("ok")
	d.log.Info().Str("url", url).Msg("oversized result uploaded")
	return Delivery{FileURL: url}, nil
}

func wrapHTML(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
</head>
<body>
    <main>
       <p>
           %s
       </p>
    </main>
</body>
</html>
`, title, body)
}
