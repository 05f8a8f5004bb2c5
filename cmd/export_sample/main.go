package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"resume-builder/internal/model"
	"resume-builder/internal/richtext"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/backend"
	"resume-builder/pkg/infrastructure"

	_ "github.com/joho/godotenv/autoload"
)

// startMockBackend answers saves the way the remote function does and logs
// what it received.
func startMockBackend(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/save", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		if err := json.Unmarshal(body, &req); err != nil || req["userId"] == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"userId is required"}`))
			return
		}
		slog.Info("mock backend received resume", "user_id", req["userId"], "bytes", len(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"saved"}`))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()
	return srv
}

func sampleResume(template model.TemplateID) model.Resume {
	doc := model.NewResume(template)
	doc.Title = "Sample Resume"
	doc.Contact = model.ContactInfo{Name: "Test User", Email: "t@example.com", Phone: "555-0100"}
	doc.Summary = richtext.Sanitize("<p>Backend engineer focused on <b>reliable</b> data pipelines.</p>")

	job := model.NewWorkExperience()
	job.JobTitle = "Engineer"
	job.Company = "Acme"
	job.StartDate, job.EndDate = "2020", "2022"
	job.Description = richtext.Sanitize("<ul><li>Cut processing time by half.</li></ul>")
	doc.Experience = append(doc.Experience, job)

	edu := model.NewEducation()
	edu.School = "State University"
	edu.Degree = "BSc Computer Science"
	doc.Education = append(doc.Education, edu)

	doc = model.AddSkill(doc, "Go")
	return model.AddSkill(doc, "PostgreSQL")
}

func main() {
	template := flag.String("template", string(model.TemplateModern), "template id")
	outDir := flag.String("out", filepath.Join("resume-data", "generated"), "output directory")
	flag.Parse()

	srv := startMockBackend("127.0.0.1:8000")
	defer srv.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	lib := usecase.NewLibrary(nil)
	sessions := usecase.NewSessions(lib, backend.NewClient("http://127.0.0.1:8000/save", 10*time.Second, backend.PayloadFields), nil)

	raw, err := json.Marshal(sampleResume(model.TemplateID(*template)))
	if err != nil {
		slog.Error("marshal sample", "error", err)
		os.Exit(1)
	}
	s, err := sessions.Import("sample-user", raw)
	if err != nil {
		slog.Error("import sample", "error", err)
		os.Exit(1)
	}
	if res := s.Save(ctx); res.Warning != "" {
		slog.Warn("save finished with a warning", "warning", res.Warning)
	}

	capturer := infrastructure.NewChromedpCapturer(os.Getenv("CHROME_PATH"), 30*time.Second)
	defer capturer.Close()
	exporter := usecase.NewExporter(capturer, usecase.ExportOptions{}, nil, nil)

	doc := s.Snapshot()
	out, err := exporter.Export(ctx, usecase.SessionKey(s.UserID(), doc.ID), s.UserID(), doc)
	if err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("create output dir", "error", err)
		os.Exit(1)
	}
	path := filepath.Join(*outDir, out.FileName)
	if err := os.WriteFile(path, out.PDF, 0o644); err != nil {
		slog.Error("write pdf", "error", err)
		os.Exit(1)
	}
	slog.Info("export completed", "path", path, "bytes", len(out.PDF), "truncated", out.Truncated)
}
