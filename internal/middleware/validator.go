package middleware

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Input validation helpers shared by the HTTP layer

var allowedUploadExts = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// ValidateUploadName checks the uploaded filename: no traversal, no
// shell metacharacters, extension on the allow list.
func ValidateUploadName(name string) error {
	if name == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("invalid file name")
	}
	dangerous := []string{"$(", "`", "&", "|", ";", "\n", "\r", "\x00"}
	for _, d := range dangerous {
		if strings.Contains(name, d) {
			return fmt.Errorf("invalid characters in file name")
		}
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !allowedUploadExts[ext] {
		return fmt.Errorf("unsupported file type: %s (allowed: txt, pdf, doc, docx, jpeg, jpg, png, gif)", ext)
	}
	return nil
}

// ValidateStatus checks the history status filter
func ValidateStatus(status string) error {
	switch status {
	case "", "all", "completed", "processing", "failed":
		return nil
	}
	return fmt.Errorf("invalid status: %s (allowed: all, completed, processing, failed)", status)
}

var ruleIDPattern = regexp.MustCompile(`^[esg][1-4]$`)

// ValidateRuleID checks a compliance rule id format
func ValidateRuleID(id string) error {
	if !ruleIDPattern.MatchString(id) {
		return fmt.Errorf("invalid rule id: %s", id)
	}
	return nil
}

// ValidateLimit clamps a pagination limit into range
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// SanitizeString removes null bytes and control characters
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}
