package vision

import (
	"context"
	"fmt"
	"io"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/encoding/protojson"
)

// DocumentAIConfig identifies a Document AI form parser processor.
type DocumentAIConfig struct {
	ProjectID   string
	Location    string
	ProcessorID string
	// CredentialsFile overrides GOOGLE_APPLICATION_CREDENTIALS when set.
	CredentialsFile string
}

func (c DocumentAIConfig) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

type processFunc func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error)

// DocumentAI extracts form text with a Document AI form parser. Detected key/value pairs are
// written as "Label: value" lines so they go through the same parser as a Gemini answer.
type DocumentAI struct {
	cfg     DocumentAIConfig
	process processFunc
	close   func() error
	retry   RetryPolicy
	logger  *zap.Logger
	debug   io.Writer
}

// NewDocumentAI connects to the regional Document AI endpoint for cfg.Location.
func NewDocumentAI(ctx context.Context, cfg DocumentAIConfig, retry RetryPolicy, logger *zap.Logger) (*DocumentAI, error) {
	opts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)),
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}

	process := func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error) {
		resp, err := client.ProcessDocument(ctx, req)
		if err != nil {
			return nil, err
		}
		return resp.GetDocument(), nil
	}
	d := newDocumentAI(cfg, process, retry, logger)
	d.close = client.Close
	return d, nil
}

func newDocumentAI(cfg DocumentAIConfig, process processFunc, retry RetryPolicy, logger *zap.Logger) *DocumentAI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentAI{cfg: cfg, process: process, retry: retry, logger: logger}
}

// SetDebugWriter makes every later Extract write the raw Document proto to w as JSON.
func (d *DocumentAI) SetDebugWriter(w io.Writer) {
	d.debug = w
}

// Close releases the underlying client.
func (d *DocumentAI) Close() error {
	if d.close == nil {
		return nil
	}
	return d.close()
}

// Extract processes img and returns its form fields as text.
func (d *DocumentAI) Extract(ctx context.Context, img Image) (string, error) {
	req := &documentaipb.ProcessRequest{
		Name: d.cfg.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  img.Data,
				MimeType: img.MIMEType,
			},
		},
		SkipHumanReview: true,
	}

	var doc *documentaipb.Document
	err := d.retry.Do(ctx, d.logger, func(ctx context.Context) error {
		var err error
		doc, err = d.process(ctx, req)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to process document: %w", err)
	}

	if d.debug != nil {
		if err := dumpDocument(d.debug, doc); err != nil {
			return "", err
		}
	}

	text := FormText(doc)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoContent
	}
	d.logger.Debug("document ai extraction complete",
		zap.String("image", img.Name),
		zap.Int("pages", len(doc.GetPages())),
		zap.Int("entities", len(doc.GetEntities())),
	)
	return text, nil
}

func dumpDocument(w io.Writer, doc *documentaipb.Document) error {
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// FormText flattens the form fields of every page, then any custom extractor entities, into
// "Label: value" lines. Empty values are written as "[]". A document without either falls
// back to its full OCR text.
func FormText(doc *documentaipb.Document) string {
	if doc == nil {
		return ""
	}

	text := docText(doc.GetText())
	var lines []string
	for _, page := range doc.GetPages() {
		for _, field := range page.GetFormFields() {
			key := strings.TrimSuffix(text.span(field.GetFieldName()), ":")
			if key == "" {
				continue
			}
			lines = append(lines, fieldLine(key, text.span(field.GetFieldValue())))
		}
	}
	for _, entity := range doc.GetEntities() {
		lines = appendEntity(lines, entity)
	}

	if len(lines) == 0 {
		return doc.GetText()
	}
	return strings.Join(lines, "\n")
}

// appendEntity writes an entity and, recursively, its properties. Entities that only group
// properties produce no line of their own.
func appendEntity(lines []string, entity *documentaipb.Document_Entity) []string {
	if entity.GetType() == "" {
		return lines
	}
	if value := strings.TrimSpace(entity.GetMentionText()); value != "" || len(entity.GetProperties()) == 0 {
		lines = append(lines, fieldLine(entity.GetType(), value))
	}
	for _, prop := range entity.GetProperties() {
		lines = appendEntity(lines, prop)
	}
	return lines
}

func fieldLine(key, value string) string {
	if value == "" {
		value = "[]"
	}
	return key + ": " + value
}

// docText is a document's full text, indexed by the offsets its text anchors use.
type docText []rune

// span returns the trimmed text covered by layout's anchor segments, clamped to the text.
func (t docText) span(layout *documentaipb.Document_Page_Layout) string {
	var sb strings.Builder
	for _, seg := range layout.GetTextAnchor().GetTextSegments() {
		end := max(min(int(seg.GetEndIndex()), len(t)), 0)
		start := min(max(int(seg.GetStartIndex()), 0), end)
		sb.WriteString(string(t[start:end]))
	}
	return strings.TrimSpace(sb.String())
}
