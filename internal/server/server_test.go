package server_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/thywilljoshua/studynotes/internal/ai"
	"github.com/thywilljoshua/studynotes/internal/extract"
	"github.com/thywilljoshua/studynotes/internal/extract/pdftest"
	"github.com/thywilljoshua/studynotes/internal/metrics"
	"github.com/thywilljoshua/studynotes/internal/server"
	"github.com/thywilljoshua/studynotes/internal/study"
)

const photosynthesis = "Photosynthesis converts light into chemical energy."

const photosynthesisMCQ = `[{"question":"What does photosynthesis convert?","options":{"A":"Heat","B":"Light into chemical energy","C":"Water","D":"Sound"},"correct_answer":"B"}]`

type document struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Characters        int              `json:"characters"`
	Preview           string           `json:"preview"`
	GenerationEnabled bool             `json:"generation_enabled"`
	MCQs              *study.MCQSet    `json:"mcq_quiz"`
	Mixed             *study.MixedQuiz `json:"mixed_quiz"`
}

type generation struct {
	Kind     string          `json:"kind"`
	Artifact json.RawMessage `json:"artifact"`
	Error    string          `json:"error"`
}

func newServer(t *testing.T, gen ai.Generator, opts ...func(*server.Config)) (*httptest.Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	cfg := server.Config{
		Extractor: extract.Plain{},
		Service:   study.NewService(gen, nil, study.WithRecorder(m)),
		Metrics:   m,
		Gatherer:  reg,
	}
	for _, o := range opts {
		o(&cfg)
	}
	srv := server.New(cfg)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, reg
}

func upload(t *testing.T, ts *httptest.Server, filename string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()

	resp, err := http.Post(ts.URL+"/api/documents", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func uploadDoc(t *testing.T, ts *httptest.Server, pages ...string) document {
	t.Helper()
	resp := upload(t, ts, "bio.pdf", pdftest.Build(pages...))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, b)
	}
	var doc document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	return doc
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	ts, _ := newServer(t, &ai.Static{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := decode[map[string]string](t, resp); got["status"] != "ok" {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestUpload_ExtractsAndPreviews(t *testing.T) {
	ts, _ := newServer(t, &ai.Static{})
	doc := uploadDoc(t, ts, photosynthesis)

	if doc.ID == "" || doc.Name != "bio.pdf" {
		t.Fatalf("unexpected document %+v", doc)
	}
	if !strings.Contains(doc.Preview, photosynthesis) || !doc.GenerationEnabled || doc.Characters == 0 {
		t.Fatalf("unexpected extraction result %+v", doc)
	}
}

func TestUpload_Rejections(t *testing.T) {
	ts, _ := newServer(t, &ai.Static{})

	resp := upload(t, ts, "notes.docx", []byte("not a pdf"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415 for non-PDF name, got %d", resp.StatusCode)
	}

	resp = upload(t, ts, "broken.pdf", []byte("this is not a pdf at all"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unreadable PDF, got %d", resp.StatusCode)
	}

	resp = post(t, ts.URL+"/api/documents", `{"url":"ftp://example.com/a.pdf"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-http url, got %d", resp.StatusCode)
	}
}

func TestUpload_FromURL(t *testing.T) {
	pdf := pdftest.Build(photosynthesis)
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	}))
	defer origin.Close()

	ts, _ := newServer(t, &ai.Static{})
	resp := post(t, ts.URL+"/api/documents", `{"url":"`+origin.URL+`/papers/leaf.pdf"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	doc := decode[document](t, resp)
	if doc.Name != "leaf.pdf" || !strings.Contains(doc.Preview, photosynthesis) {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestUpload_FromURLRespectsSizeLimit(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(bytes.Repeat([]byte("%PDF-1.4 padding "), 2000))
	}))
	defer origin.Close()

	ts, reg := newServer(t, &ai.Static{}, func(c *server.Config) { c.MaxUploadBytes = 1024 })
	resp := post(t, ts.URL+"/api/documents", `{"url":"`+origin.URL+`/huge.pdf"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range mfs {
		if mf.GetName() == "studynotes_extractions_total" {
			t.Fatalf("oversized download must not reach extraction")
		}
	}
}

func TestGenerateMCQs_AndExport(t *testing.T) {
	gw := &ai.Static{Reply: photosynthesisMCQ}
	ts, _ := newServer(t, gw)
	doc := uploadDoc(t, ts, photosynthesis)

	resp := post(t, ts.URL+"/api/documents/"+doc.ID+"/mcq", `{"count":1}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	gen := decode[generation](t, resp)
	if gen.Error != "" || gen.Kind != "mcq_quiz" {
		t.Fatalf("unexpected generation %+v", gen)
	}
	want, _ := study.ParseMCQs(photosynthesisMCQ)
	got, err := study.ParseMCQs(string(gen.Artifact))
	if err != nil {
		t.Fatalf("artifact does not parse: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if len(gw.Prompts) != 1 || !strings.Contains(gw.Prompts[0], "Generate 1 MCQs") {
		t.Fatalf("unexpected prompts %v", gw.Prompts)
	}

	exp, err := http.Get(ts.URL + "/api/documents/" + doc.ID + "/export/mcq_quiz")
	if err != nil {
		t.Fatal(err)
	}
	defer exp.Body.Close()
	if exp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", exp.StatusCode)
	}
	_, params, err := mime.ParseMediaType(exp.Header.Get("Content-Disposition"))
	if err != nil || params["filename"] != "bio.pdf_mcq_quiz.json" {
		t.Fatalf("unexpected disposition %q", exp.Header.Get("Content-Disposition"))
	}
	body, _ := io.ReadAll(exp.Body)
	exported, err := study.ParseMCQs(string(body))
	if err != nil {
		t.Fatalf("export does not parse: %v", err)
	}
	if diff := cmp.Diff(want, exported); diff != "" {
		t.Fatalf("export mismatch (-want +got):\n%s", diff)
	}

	snap, err := http.Get(ts.URL + "/api/documents/" + doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if d := decode[document](t, snap); d.MCQs == nil || len(*d.MCQs) != 1 || d.Mixed != nil {
		t.Fatalf("expected stored mcq artifact only, got %+v", d)
	}
}

func TestGenerate_ContainedFailureIsVisible(t *testing.T) {
	ts, _ := newServer(t, &ai.Static{Err: errors.New("quota exceeded")})
	doc := uploadDoc(t, ts, photosynthesis)

	resp := post(t, ts.URL+"/api/documents/"+doc.ID+"/mixed", `{"total":5}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	gen := decode[generation](t, resp)
	if !strings.Contains(gen.Error, "quota exceeded") {
		t.Fatalf("expected visible error, got %+v", gen)
	}
	got, err := study.ParseMixedQuiz(string(gen.Artifact))
	if err != nil || got.Len() != 0 {
		t.Fatalf("expected empty fallback quiz, got %+v (%v)", got, err)
	}
}

func TestGenerate_StatusMapping(t *testing.T) {
	ts, _ := newServer(t, &ai.Static{Reply: "[]"})
	doc := uploadDoc(t, ts, photosynthesis)
	blank := uploadDoc(t, ts)
	if blank.GenerationEnabled {
		t.Fatalf("blank document must not enable generation")
	}

	tests := []struct {
		name, path, body string
		want             int
	}{
		{"count too large", "/api/documents/" + doc.ID + "/mcq", `{"count":11}`, http.StatusBadRequest},
		{"count zero", "/api/documents/" + doc.ID + "/mixed", `{"total":0}`, http.StatusBadRequest},
		{"bad body", "/api/documents/" + doc.ID + "/mcq", `{"count":`, http.StatusBadRequest},
		{"default count", "/api/documents/" + doc.ID + "/mcq", ``, http.StatusOK},
		{"empty document", "/api/documents/" + blank.ID + "/summary", ``, http.StatusConflict},
		{"unknown session", "/api/documents/nope/summary", ``, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+tt.path, tt.body)
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestGenerate_MissingKeyIs503(t *testing.T) {
	ts, _ := newServer(t, ai.NewGemini(ai.Options{}))
	doc := uploadDoc(t, ts, photosynthesis)

	resp := post(t, ts.URL+"/api/documents/"+doc.ID+"/summary", ``)
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestExport_Errors(t *testing.T) {
	ts, _ := newServer(t, &ai.Static{})
	doc := uploadDoc(t, ts, photosynthesis)

	for path, want := range map[string]int{
		"/export/flashcards": http.StatusBadRequest,
		"/export/summary":    http.StatusNotFound,
	} {
		resp, err := http.Get(ts.URL + "/api/documents/" + doc.ID + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Fatalf("%s: expected %d, got %d", path, want, resp.StatusCode)
		}
	}
}

func TestDeleteDocument(t *testing.T) {
	ts, _ := newServer(t, &ai.Static{})
	doc := uploadDoc(t, ts, photosynthesis)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/documents/"+doc.ID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	resp, err = http.Get(ts.URL + "/api/documents/" + doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newServer(t, &ai.Static{Reply: photosynthesisMCQ})
	doc := uploadDoc(t, ts, photosynthesis)
	post(t, ts.URL+"/api/documents/"+doc.ID+"/mcq", `{"count":1}`).Body.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		`studynotes_extractions_total{result="ok"} 1`,
		`studynotes_generations_total{artifact="mcq_quiz",outcome="ok"} 1`,
	} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}
