// Package extract turns non-CSV statements (PDFs and photos) into
// transaction rows using a vision-capable model.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tallyhq/tally/internal/model"
)

// ErrUnsupportedFile is returned for documents the extractor cannot send.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Result is the model's reading of a statement document.
type Result struct {
	AccountType model.AccountType
	Rows        []model.ExtractedRow
}

// Extractor reads transactions out of a document.
type Extractor interface {
	Extract(ctx context.Context, fileName string, data []byte) (Result, error)
}

var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// MIMEType returns the upload content type for fileName.
func MIMEType(fileName string) (string, error) {
	mt, ok := mimeTypes[strings.ToLower(filepath.Ext(fileName))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, fileName)
	}
	return mt, nil
}

const prompt = `Extract all transactions from this bank or credit card statement.

Return a JSON object with this exact structure:
{
  "accountType": "checking" or "credit",
  "transactions": [
    {
      "date": "YYYY-MM-DD",
      "description": "merchant or description",
      "amount": number (negative for expenses, positive for income/credits)
    }
  ]
}

Rules:
- Parse ALL transactions visible in the statement.
- Use negative numbers for purchases/debits and positive for deposits/credits.
- Format dates as YYYY-MM-DD.
- Include the full description/merchant name.

Return ONLY valid raw JSON. Do NOT wrap the response in code fences.
Output must begin with "{" and end with "}".`

type response struct {
	AccountType  model.AccountType    `json:"accountType"`
	Transactions []model.ExtractedRow `json:"transactions"`
}

// ParseResponse decodes a model reply. Markdown fences and text around the
// JSON object are ignored. An unknown account type is left empty.
func ParseResponse(raw string) (Result, error) {
	clean := cleanModelJSON(raw)
	if clean == "" {
		return Result{}, errors.New("empty response from model")
	}

	var resp response
	if err := json.Unmarshal([]byte(clean), &resp); err != nil {
		return Result{}, fmt.Errorf("unmarshal model JSON: %w", err)
	}

	acct := model.AccountType(strings.ToLower(strings.TrimSpace(string(resp.AccountType))))
	if !acct.Valid() {
		acct = ""
	}
	return Result{AccountType: acct, Rows: resp.Transactions}, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the opening fence line (``` or ```json).
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return ""
		}
		s = strings.TrimSpace(s[idx+1:])
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}
