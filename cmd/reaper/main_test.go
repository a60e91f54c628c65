package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"reaper/internal/config"
	"reaper/internal/dicomfile"
	"reaper/internal/services"
	"reaper/internal/staging"
	"reaper/internal/testsupport"
)

func TestScanPrintsHierarchy(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "incoming")
	writeSeries(t, src, "1.2.3", "1.2.3.4", 2)
	testsupport.WriteFile(t, filepath.Join(src, "notes.txt"), 32)

	out, _, err := env.run(t, "scan", src)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "incoming")
	requireContains(t, out, "Brain Study (subject SUBJ01)")
	requireContains(t, out, "T1 Axial")
	requireContains(t, out, "2 images")
	requireContains(t, out, "Skipped 1 of 3 files")
}

func TestScanMissingFolder(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := env.run(t, "scan", filepath.Join(env.baseDir, "missing"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadToDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "incoming")
	dest := filepath.Join(env.baseDir, "dest")
	writeSeries(t, src, "1.2.3", "1.2.3.4", 2)
	writeSeries(t, src, "1.2.3", "1.2.3.5", 1)

	out, _, err := env.run(t, "upload", src, dest, "lab", "study", "--yes")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	requireContains(t, out, "lab/study")
	requireContains(t, out, "Uploaded 2 datasets (3 images")

	archives := findFiles(t, dest, ".dicom.zip")
	if len(archives) != 2 {
		t.Fatalf("expected 2 archives, got %v", archives)
	}
	for _, archivePath := range archives {
		if _, err := os.Stat(archivePath + ".metadata.json"); err != nil {
			t.Fatalf("metadata sidecar missing for %s: %v", archivePath, err)
		}
		if got := filepath.Base(filepath.Dir(filepath.Dir(filepath.Dir(filepath.Dir(archivePath))))); got != "lab" {
			t.Fatalf("archive %s not under group directory", archivePath)
		}
	}

	dirs, err := staging.ListDirectories(env.cfg.Paths.StagingDir)
	if err != nil {
		t.Fatalf("list staging: %v", err)
	}
	if len(dirs) != 0 {
		t.Fatalf("expected work directories to be removed, found %v", dirs)
	}
}

func TestUploadDeidentifyLeavesSourceUntouched(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "incoming")
	dest := filepath.Join(env.baseDir, "dest")
	writeSeries(t, src, "1.2.3", "1.2.3.4", 1)

	out, _, err := env.run(t, "upload", src, dest, "lab", "study", "--yes", "--de-identify")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	requireContains(t, out, "Uploaded 1 datasets")

	sources := findFiles(t, src, ".dcm")
	if len(sources) != 1 {
		t.Fatalf("expected 1 source file, got %v", sources)
	}
	f, err := dicomfile.Open(sources[0])
	if err != nil {
		t.Fatalf("open source: %v", err)
	}
	if got := f.Get("PatientName", ""); got != "Doe^Jane" {
		t.Fatalf("source PatientName = %q, want it untouched", got)
	}
}

func TestUploadNothingToDo(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "incoming")
	testsupport.WriteFile(t, filepath.Join(src, "readme.txt"), 8)

	out, _, err := env.run(t, "upload", src, filepath.Join(env.baseDir, "dest"), "lab", "study")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	requireContains(t, out, "Nothing to upload")
}

func TestUploadDeclinedAtPrompt(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "incoming")
	dest := filepath.Join(env.baseDir, "dest")
	writeSeries(t, src, "1.2.3", "1.2.3.4", 1)

	out, _, err := runCLI(t, []string{"upload", src, dest, "lab", "study"}, env.configPath, "n\n")
	if !errors.Is(err, services.ErrAborted) {
		t.Fatalf("expected aborted error, got %v", err)
	}
	requireContains(t, out, "[y/N]")
	if archives := findFiles(t, dest, ".dicom.zip"); len(archives) != 0 {
		t.Fatalf("expected nothing uploaded, found %v", archives)
	}
}

func TestUploadConfirmedAtPrompt(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "incoming")
	dest := filepath.Join(env.baseDir, "dest")
	writeSeries(t, src, "1.2.3", "1.2.3.4", 1)

	out, _, err := runCLI(t, []string{"upload", src, dest, "lab", "study"}, env.configPath, "yes\n")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	requireContains(t, out, "Uploaded 1 datasets")
}

func TestUploadRejectsInvalidTimezone(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "incoming")
	writeSeries(t, src, "1.2.3", "1.2.3.4", 1)

	_, _, err := env.run(t, "upload", src, filepath.Join(env.baseDir, "dest"), "lab", "study", "--yes", "--timezone", "Mars/Olympus")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadRejectsUnknownTagRole(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "incoming")
	writeSeries(t, src, "1.2.3", "1.2.3.4", 1)

	_, _, err := env.run(t, "upload", src, filepath.Join(env.baseDir, "dest"), "lab", "study", "--yes", "--tag", "scanner=Manufacturer")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadRequiresFourArguments(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := env.run(t, "upload", env.baseDir, "dest", "lab"); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, "", ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithAPIKey("super-secret"))

	out, _, err := env.run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "staging_dir")
	requireContains(t, out, "********")
	if strings.Contains(out, "super-secret") {
		t.Fatalf("api key leaked in %q", out)
	}
}

func TestStagingCleanRemovesStaleDirectories(t *testing.T) {
	env := setupCLITestEnv(t)
	stale := filepath.Join(env.cfg.Paths.StagingDir, "dataset-stale")
	fresh := filepath.Join(env.cfg.Paths.StagingDir, "dataset-fresh")
	for _, dir := range []string{stale, fresh} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	out, _, err := env.run(t, "staging", "list")
	if err != nil {
		t.Fatalf("staging list: %v", err)
	}
	requireContains(t, out, "dataset-stale")
	requireContains(t, out, "2 directories")

	out, _, err = env.run(t, "staging", "clean", "--max-age", "24")
	if err != nil {
		t.Fatalf("staging clean: %v", err)
	}
	requireContains(t, out, "Removed 1 stale directories")
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale directory still present: %v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh directory removed: %v", err)
	}
}

func TestStagingCleanRefusesWhileUploadHoldsRoot(t *testing.T) {
	env := setupCLITestEnv(t)
	held, err := staging.Acquire(env.cfg.Paths.StagingDir, false)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer held.Release()

	_, _, err = env.run(t, "staging", "clean")
	if !errors.Is(err, staging.ErrBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
}

// writeRelatedAcquisition writes a two-image T1 series plus a one-image
// reformat that names the T1 series as its source.
func writeRelatedAcquisition(t *testing.T, dir string) {
	t.Helper()
	images := []testsupport.DICOM{
		{SeriesUID: "1.2.3.10", SOPInstanceUID: "1.2.3.10.1", SeriesDescription: "T1", SeriesNumber: "3"},
		{SeriesUID: "1.2.3.10", SOPInstanceUID: "1.2.3.10.2", SeriesDescription: "T1", SeriesNumber: "3"},
		{SeriesUID: "1.2.3.11", SOPInstanceUID: "1.2.3.11.1", SeriesDescription: "T1 MPR", SeriesNumber: "301", PrimarySeriesUID: "1.2.3.10"},
	}
	for _, img := range images {
		img.StudyUID = "1.2.3"
		img.PatientID = "SUBJ01"
		img.StudyDescription = "Brain Study"
		img.StudyDate = "20200110"
		testsupport.WriteDICOM(t, filepath.Join(dir, img.SOPInstanceUID+".dcm"), img)
	}
}

func TestScanGroupsRelatedSeries(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "incoming")
	writeRelatedAcquisition(t, src)

	out, _, err := env.run(t, "scan", src, "--related-acq")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "3 - T1 [2 images]")
	requireContains(t, out, "301 - T1 MPR [1 image]")
	if strings.Contains(out, "T1 MPR\n") {
		t.Fatalf("reformat should not get its own acquisition in %q", out)
	}
}

func TestUploadRelatedSeriesShareAcquisition(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "incoming")
	dest := filepath.Join(env.baseDir, "dest")
	writeRelatedAcquisition(t, src)

	out, _, err := env.run(t, "upload", src, dest, "lab", "study", "--yes", "--related-acq")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	requireContains(t, out, "Uploaded 2 datasets (3 images")

	archives := findFiles(t, dest, ".dicom.zip")
	if len(archives) != 2 {
		t.Fatalf("expected 2 archives, got %v", archives)
	}
	if filepath.Dir(archives[0]) != filepath.Dir(archives[1]) {
		t.Fatalf("expected one acquisition directory, got %v", archives)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"interrupted", fmt.Errorf("upload: %w", context.Canceled), "interrupted"},
		{"preflight", services.Wrap(services.ErrValidation, "preflight", "source", "not a directory", nil), "preflight failed, nothing was uploaded: validation error: preflight: source: not a directory"},
		{"transfer", services.Wrap(services.ErrTransfer, "transfer", "send", "status 500", nil), "transfer error: transfer: send: status 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, errorMessage(tt.err)); diff != "" {
				t.Fatalf("message mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigInitPrintsSample(t *testing.T) {
	out, _, err := runCLI(t, []string{"config", "init", "--print"}, "", "")
	if err != nil {
		t.Fatalf("config init --print: %v", err)
	}
	if diff := cmp.Diff(config.SampleConfig(), out); diff != "" {
		t.Fatalf("sample mismatch (-want +got):\n%s", diff)
	}
}
