// Package genai wraps Google's Gemini API behind the small Model interface
// used by face verification and the assistant.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("model returned an empty response")

// Part is one piece of a prompt: either text or inline binary data.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

func Text(s string) Part { return Part{Text: s} }

func Blob(data []byte, mimeType string) Part { return Part{Data: data, MIMEType: mimeType} }

type FieldType string

const (
	FieldBoolean FieldType = "boolean"
	FieldString  FieldType = "string"
)

// Schema asks for a flat JSON object response.
type Schema struct {
	Properties map[string]FieldType
	Required   []string
}

type Request struct {
	Parts  []Part
	Schema *Schema
}

// Model generates text for a prompt. Implementations must honour ctx deadlines.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	var config *genai.GenerateContentConfig
	if req.Schema != nil {
		config = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   toSchema(req.Schema),
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, toContents(req.Parts), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func toContents(parts []Part) []*genai.Content {
	converted := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if len(p.Data) > 0 {
			converted = append(converted, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		converted = append(converted, genai.NewPartFromText(p.Text))
	}
	return []*genai.Content{genai.NewContentFromParts(converted, genai.RoleUser)}
}

func toSchema(s *Schema) *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Properties))
	for name, t := range s.Properties {
		switch t {
		case FieldBoolean:
			props[name] = &genai.Schema{Type: genai.TypeBoolean}
		default:
			props[name] = &genai.Schema{Type: genai.TypeString}
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   s.Required,
	}
}
