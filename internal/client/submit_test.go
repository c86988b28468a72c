package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestSubmitJobSendsMultipartFields(t *testing.T) {
	var (
		seenFile   []byte
		seenFields map[string]string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/jobs" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "doc.pdf" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		seenFile, _ = io.ReadAll(file)
		seenFields = map[string]string{}
		for key, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				seenFields[key] = values[0]
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"job-9","filename":"doc.pdf","input_type":"pdf","status":"QUEUED","stage":"QUEUED","progress":0.05,"created_at":"2025-06-01T09:00:00+00:00","updated_at":"2025-06-01T09:00:00+00:00"}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	job, err := testClient(server.URL).SubmitJob(context.Background(), path, SubmitOptions{
		InputType:        "pdf",
		Model:            "gpt-4.1",
		TOCCheckPages:    12,
		AddNodeSummaries: "yes",
		Thinning:         "no",
	})
	if err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}
	if job.ID != "job-9" || job.Status != "QUEUED" {
		t.Fatalf("unexpected job: %+v", job)
	}
	if string(seenFile) != "%PDF-1.4 fake" {
		t.Fatalf("unexpected file content: %q", seenFile)
	}
	want := map[string]string{
		"input_type":          "pdf",
		"model":               "gpt-4.1",
		"toc_check_pages":     "12",
		"if_add_node_summary": "yes",
		"if_thinning":         "no",
	}
	for key, value := range want {
		if seenFields[key] != value {
			t.Fatalf("field %s: got %q want %q (all: %v)", key, seenFields[key], value, seenFields)
		}
	}
	if _, ok := seenFields["max_pages_per_node"]; ok {
		t.Fatalf("unset field was sent: %v", seenFields)
	}
}

func TestSubmitJobRejectsBadFlagValue(t *testing.T) {
	c := testClient("http://127.0.0.1:1")
	_, err := c.SubmitJob(context.Background(), "nope.pdf", SubmitOptions{
		InputType:  "pdf",
		AddNodeIDs: "maybe",
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSubmitJobRequiresInputType(t *testing.T) {
	c := testClient("http://127.0.0.1:1")
	_, err := c.SubmitJob(context.Background(), "nope.bin", SubmitOptions{})
	if err == nil {
		t.Fatalf("expected input type error")
	}
}

func TestInferInputType(t *testing.T) {
	cases := []struct {
		name string
		want string
		ok   bool
	}{
		{"report.pdf", "pdf", true},
		{"REPORT.PDF", "pdf", true},
		{"notes.md", "md", true},
		{"notes.markdown", "md", true},
		{"data.csv", "", false},
	}
	for _, tc := range cases {
		got, ok := InferInputType(tc.name)
		if ok != tc.ok || string(got) != tc.want {
			t.Fatalf("InferInputType(%q) = %q,%v want %q,%v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}
