package analysis

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"go.uber.org/zap"

	"github.com/Rikcr7/ResuMATE/internal/utils"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	maxErrorBody    = 512
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type formField struct {
	name  string
	value string
}

func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Accept", contentType)

	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.decodeJSON(resp, target)
}

// postMultipart streams fields followed by file parts (all under fileField) and decodes the JSON answer.
func (c *Client) postMultipart(ctx context.Context, url string, fields []formField, fileField string, files []Upload, target any) error {
	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(w, fields, fileField, files))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		pr.CloseWithError(err)
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", contentType)

	// The transport closes the request body on every path, which unblocks the writer.
	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.decodeJSON(resp, target)
}

func writeMultipart(w *multipart.Writer, fields []formField, fileField string, files []Upload) error {
	for _, field := range fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return err
		}
	}

	for _, file := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(fileField), quoteEscaper.Replace(file.Name)))
		h.Set("Content-Type", file.MimeType)

		part, err := w.CreatePart(h)
		if err != nil {
			return err
		}

		if err := copyUpload(part, file); err != nil {
			return fmt.Errorf("upload %q: %w", file.Name, err)
		}
	}

	return w.Close()
}

func copyUpload(dst io.Writer, file Upload) error {
	if file.Open == nil {
		return fmt.Errorf("no content source")
	}

	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = io.Copy(dst, rc)
	return err
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

// decodeJSON reads the whole body, turns non-2xx answers into *StatusError and unmarshals into target.
func (c *Client) decodeJSON(resp *http.Response, target any) error {
	reader, err := bodyReader(resp)
	if err != nil {
		return err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   utils.TruncateForLog(string(data), maxErrorBody),
		}
		c.logger.Debug("analysis service returned an error",
			zap.Int("code", resp.StatusCode),
			zap.String("body", statusErr.Body),
		)
		return statusErr
	}

	if target == nil {
		return nil
	}

	if err := json.NewDecoder(bytes.NewReader(data)).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// bodyReader returns the response body, transparently gunzipping it when needed.
func bodyReader(resp *http.Response) (io.ReadCloser, error) {
	if resp.Header.Get("Content-Encoding") != "gzip" {
		return resp.Body, nil
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, err
	}

	return &gzipBody{Reader: gz, body: resp.Body}, nil
}

type gzipBody struct {
	*gzip.Reader
	body io.Closer
}

func (g *gzipBody) Close() error {
	gzErr := g.Reader.Close()
	if err := g.body.Close(); err != nil {
		return err
	}
	return gzErr
}
