package httpupload

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reaper/internal/logging"
	"reaper/internal/services"
	"reaper/internal/upload"
)

// UploadPath is appended to the target URL.
const UploadPath = "/upload/label"

// HTTPDoer describes the HTTP client used by the uploader.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts archives to one upload endpoint.
type Client struct {
	endpoint string
	apiKey   string
	client   HTTPDoer
	logger   *slog.Logger
}

// Options configures New.
type Options struct {
	APIKey   string
	Insecure bool
	Timeout  time.Duration
	Logger   *slog.Logger
}

// New returns a client for baseURL built on net/http. Insecure disables TLS
// certificate verification.
func New(baseURL string, opts Options) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return NewWithDoer(baseURL, opts.APIKey, &http.Client{Transport: transport, Timeout: opts.Timeout}, opts.Logger)
}

// NewWithDoer constructs a client around an arbitrary HTTPDoer.
func NewWithDoer(baseURL, apiKey string, doer HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		endpoint: strings.TrimRight(strings.TrimSpace(baseURL), "/") + UploadPath,
		apiKey:   strings.TrimSpace(apiKey),
		client:   doer,
		logger:   logging.NewComponentLogger(logger, "httpupload"),
	}
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send uploads one archive. It matches upload.TransferFunc.
func (c *Client) Send(ctx context.Context, archivePath string, env upload.Envelope) error {
	metadata, err := json.Marshal(env)
	if err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "encode metadata", "", err)
	}
	file, err := os.Open(archivePath)
	if err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "open archive", archivePath, err)
	}
	defer file.Close()

	body, contentType := streamMultipart(metadata, filepath.Base(archivePath), file)
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "build request", c.endpoint, err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "scitran-user "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "post", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := fmt.Sprintf("%s returned %d", c.endpoint, resp.StatusCode)
		if text := strings.TrimSpace(string(snippet)); text != "" {
			msg += ": " + text
		}
		return services.Wrap(services.ErrTransfer, "transfer", "post", msg, nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug("archive posted",
		logging.String("endpoint", c.endpoint),
		logging.String("archive", filepath.Base(archivePath)),
		logging.Int("status", resp.StatusCode),
	)
	return nil
}

// streamMultipart writes the metadata field and file part through a pipe.
func streamMultipart(metadata []byte, fileName string, file io.Reader) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeParts(mw, metadata, fileName, file)
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()
	return pr, mw.FormDataContentType()
}

func writeParts(mw *multipart.Writer, metadata []byte, fileName string, file io.Reader) error {
	if err := mw.WriteField("metadata", string(metadata)); err != nil {
		return fmt.Errorf("write metadata field: %w", err)
	}
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("stream archive: %w", err)
	}
	return nil
}
