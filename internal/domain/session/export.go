package session

import (
	"context"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

// Export formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Export is a portable dump of the session collection
type Export struct {
	ExportedAt int64           `json:"exportedAt" yaml:"exportedAt"`
	Sessions   []types.Session `json:"sessions" yaml:"sessions"`
}

// ExportResult carries the encoded document
type ExportResult struct {
	Format      string `json:"format"`
	ContentType string `json:"contentType"`
	Data        string `json:"data"`
}

// Export encodes every session, newest first, as JSON (the default) or YAML
func (m *Manager) Export(ctx context.Context, format string) (ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}

	sessions, err := m.repo.List(ctx)
	if err != nil {
		return ExportResult{}, err
	}
	doc := Export{ExportedAt: m.now().UnixMilli(), Sessions: sessions}
	if doc.Sessions == nil {
		doc.Sessions = []types.Session{}
	}

	var (
		data        []byte
		contentType string
	)
	switch format {
	case FormatJSON:
		data, err = sonic.ConfigStd.MarshalIndent(doc, "", "  ")
		contentType = "application/json"
	case FormatYAML:
		data, err = yaml.Marshal(doc)
		contentType = "application/yaml"
	default:
		return ExportResult{}, ErrUnsupportedFormat
	}
	if err != nil {
		return ExportResult{}, err
	}

	return ExportResult{Format: format, ContentType: contentType, Data: string(data)}, nil
}
