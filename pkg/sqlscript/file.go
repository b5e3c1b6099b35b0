package sqlscript

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
)

// Script is a SQL script loaded from disk.
type Script struct {
	Name string
	Path string
	Text string
	Hash string // hex SHA-256 of Text
}

// Load reads the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	return &Script{
		Name: filepath.Base(path),
		Path: path,
		Text: string(data),
		Hash: fmt.Sprintf("%x", sha256.Sum256(data)),
	}, nil
}

// Statements returns the statements of the script.
func (s *Script) Statements() []string { return Split(s.Text) }
