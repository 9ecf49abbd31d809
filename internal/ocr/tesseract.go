// ABOUTME: Recognizer backed by the tesseract command-line tool.
// ABOUTME: Restricts output to the characters found on medication labels.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Whitelist is the character set tesseract may emit.
const Whitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-. "

// Recognizer turns an image into best-effort text.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Tesseract runs the tesseract binary.
type Tesseract struct {
	Binary    string
	Language  string
	Whitelist string
}

// NewTesseract returns a recognizer using tesseract from PATH with English data.
func NewTesseract() *Tesseract {
	return &Tesseract{Binary: "tesseract", Language: "eng", Whitelist: Whitelist}
}

// Args returns the command-line arguments for one image.
func (t *Tesseract) Args(imagePath string) []string {
	args := []string{imagePath, "stdout"}
	if t.Language != "" {
		args = append(args, "-l", t.Language)
	}
	if t.Whitelist != "" {
		args = append(args, "-c", "tessedit_char_whitelist="+t.Whitelist)
	}
	return args
}

// Recognize runs tesseract on the image and returns its stdout.
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	bin := t.Binary
	if bin == "" {
		bin = "tesseract"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, t.Args(imagePath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("run tesseract: %w: %s", err, msg)
		}
		return "", fmt.Errorf("run tesseract: %w", err)
	}
	return stdout.String(), nil
}
