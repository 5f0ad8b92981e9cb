package main

// Notes:
// - runFixImages is tested through run(); the detection rules themselves
//   are covered in internal/imagefix.
// - --watch is not tested here: it blocks until the context ends and the
//   watcher loop has its own tests.

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func encodedPNG(t *testing.T) (raw, b64 []byte) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	raw = buf.Bytes()
	return raw, []byte(base64.StdEncoding.EncodeToString(raw))
}

// ---------------------------------------------------------------------------
// TestRunFixImages - Command behavior
// ---------------------------------------------------------------------------

func TestRunFixImages(t *testing.T) {
	t.Parallel()

	raw, b64 := encodedPNG(t)

	t.Run("fixes files and reports counts", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeConfig(t, dir, "logo.png", string(b64))
		writeConfig(t, dir, "photo.png", string(raw))

		env, stdout, stderr := testEnv(&fakeExporter{})
		code := run(context.Background(), []string{"deck2pdf", "fix-images", "-j", "2", dir}, env)
		if code != ExitSuccess {
			t.Fatalf("run() = %d (stderr: %s)", code, stderr.String())
		}
		if !strings.Contains(stdout.String(), "Fixed 1 image(s), 1 unchanged") {
			t.Errorf("stdout = %q", stdout.String())
		}
		data, err := os.ReadFile(filepath.Join(dir, "logo.png"))
		if err != nil {
			t.Fatalf("reading: %v", err)
		}
		if !bytes.Equal(data, raw) {
			t.Error("logo.png not rewritten as binary")
		}
	})

	t.Run("dry run leaves files alone", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeConfig(t, dir, "logo.png", string(b64))

		env, stdout, _ := testEnv(&fakeExporter{})
		if code := run(context.Background(), []string{"deck2pdf", "fix-images", "--dry-run", dir}, env); code != ExitSuccess {
			t.Fatalf("run() = %d", code)
		}
		if !strings.Contains(stdout.String(), "Would fix 1 image(s)") {
			t.Errorf("stdout = %q", stdout.String())
		}
		data, _ := os.ReadFile(filepath.Join(dir, "logo.png"))
		if !bytes.Equal(data, b64) {
			t.Error("dry run rewrote the file")
		}
	})

	t.Run("rejected files do not fail the run", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeConfig(t, dir, "bad.png", "iVBORw0KGgo!!!!")

		env, stdout, _ := testEnv(&fakeExporter{})
		if code := run(context.Background(), []string{"deck2pdf", "fix-images", dir}, env); code != ExitSuccess {
			t.Fatalf("run() = %d", code)
		}
		if !strings.Contains(stdout.String(), "1 rejected") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("missing directories are skipped", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv(&fakeExporter{})
		missing := filepath.Join(t.TempDir(), "public")
		if code := run(context.Background(), []string{"deck2pdf", "fix-images", missing}, env); code != ExitSuccess {
			t.Fatalf("run() = %d", code)
		}
		if !strings.Contains(stderr.String(), "directory not found") {
			t.Errorf("stderr = %q", stderr.String())
		}
		if !strings.Contains(stdout.String(), "Fixed 0 image(s)") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("negative jobs", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(&fakeExporter{})
		if code := run(context.Background(), []string{"deck2pdf", "fix-images", "--jobs", "-1"}, env); code != ExitUsage {
			t.Errorf("run() = %d, want %d", code, ExitUsage)
		}
	})
}
