package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"outline/internal/types"
)

// SubmitOptions carries the tuning fields of a job submission. Zero values
// are omitted from the form so the server applies its own defaults; the
// yes/no fields are tri-state for the same reason.
type SubmitOptions struct {
	InputType             types.InputType
	Model                 string
	TOCCheckPages         int
	MaxPagesPerNode       int
	MaxTokensPerNode      int
	AddNodeIDs            string
	AddNodeSummaries      string
	AddDocDescription     string
	AddNodeText           string
	Thinning              string
	ThinningThreshold     int
	SummaryTokenThreshold int
}

// InferInputType maps a filename extension to the submission input type.
func InferInputType(filename string) (types.InputType, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return types.InputTypePDF, true
	case ".md", ".markdown":
		return types.InputTypeMarkdown, true
	}
	return "", false
}

// SubmitJob uploads the file at path and creates a job. The multipart body
// streams through a pipe, so arbitrarily large inputs never buffer in
// memory and the only deadline is the caller's context.
func (c *Client) SubmitJob(ctx context.Context, path string, opts SubmitOptions) (*types.JobSummary, error) {
	switch opts.InputType {
	case types.InputTypePDF, types.InputTypeMarkdown:
	default:
		return nil, fmt.Errorf("unsupported input type %q", opts.InputType)
	}
	for _, field := range []string{opts.AddNodeIDs, opts.AddNodeSummaries, opts.AddDocDescription, opts.AddNodeText, opts.Thinning} {
		if field != "" && field != "yes" && field != "no" {
			return nil, fmt.Errorf("invalid flag value %q: want yes or no", field)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		defer f.Close()
		if err := writeSubmitForm(mw, f, filepath.Base(path), opts); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/jobs", pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	httpClient := &http.Client{Transport: c.http.Transport}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}
	var job types.JobSummary
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

func writeSubmitForm(mw *multipart.Writer, file io.Reader, filename string, opts SubmitOptions) error {
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := mw.WriteField("input_type", string(opts.InputType)); err != nil {
		return err
	}

	fields := []struct {
		name  string
		value string
	}{
		{"model", strings.TrimSpace(opts.Model)},
		{"toc_check_pages", intField(opts.TOCCheckPages)},
		{"max_pages_per_node", intField(opts.MaxPagesPerNode)},
		{"max_tokens_per_node", intField(opts.MaxTokensPerNode)},
		{"if_add_node_id", opts.AddNodeIDs},
		{"if_add_node_summary", opts.AddNodeSummaries},
		{"if_add_doc_description", opts.AddDocDescription},
		{"if_add_node_text", opts.AddNodeText},
		{"if_thinning", opts.Thinning},
		{"thinning_threshold", intField(opts.ThinningThreshold)},
		{"summary_token_threshold", intField(opts.SummaryTokenThreshold)},
	}
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		if err := mw.WriteField(field.name, field.value); err != nil {
			return err
		}
	}
	return nil
}

func intField(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}
