package summarize

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const titlePrompt = `Analysiere dieses Meeting-Transkript und gib einen kurzen, prägnanten Titel zurück (2-5 Wörter, auf Deutsch).
Der Titel sollte das Hauptthema des Meetings beschreiben.
Antworte NUR mit dem Titel, ohne Anführungszeichen oder zusätzlichen Text.

Transkript:
%s`

const summaryPrompt = `Analysiere das folgende Meeting-Transkript und erstelle:

1. **Zusammenfassung** (3-5 Sätze): Was war der Hauptzweck und die wichtigsten Ergebnisse des Meetings?

2. **Teilnehmer**: Liste die Sprecher und ihre Rollen/Beiträge auf (soweit erkennbar).

3. **Wichtigste Punkte**:
   - Hauptthemen, die besprochen wurden
   - Getroffene Entscheidungen
   - Offene Fragen oder Aktionspunkte

4. **Nächste Schritte**: Falls erwähnt, liste die vereinbarten nächsten Schritte auf.

Antworte auf Deutsch im Markdown-Format.

---
TRANSKRIPT:
%s`

// Title asks the model for a short meeting title based on the start of
// the transcript.
func (s *implSummarizer) Title(ctx context.Context, transcript string) (string, error) {
	text, err := s.callGemini(ctx, fmt.Sprintf(titlePrompt, excerpt(transcript, 8000)))
	if err != nil {
		return "", err
	}

	title := cleanTitle(text)
	if title == "" {
		return "", fmt.Errorf("model returned an empty title")
	}
	return title, nil
}

// Summarize generates the full meeting summary in markdown.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	text, err := s.callGemini(ctx, fmt.Sprintf(summaryPrompt, excerpt(transcript, 60000)))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// callGemini sends a prompt to Gemini and returns the response text.
// Rotates API keys on 429 / quota errors.
func (s *implSummarizer) callGemini(ctx context.Context, prompt string) (string, error) {
	if len(s.apiKeys) == 0 {
		return "", fmt.Errorf("no API key configured")
	}

	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key := s.apiKeys[s.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", s.currentKey+1)
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSummarizer) rotateKey() {
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}

// excerpt limits prompt size without splitting a UTF-8 sequence.
func excerpt(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := []rune(s[:limit])
	return string(cut[:len(cut)-1])
}

// cleanTitle strips quotes and caps the length the way the folder name
// expects it.
func cleanTitle(s string) string {
	title := strings.TrimSpace(s)
	title = strings.Trim(title, `"'`)
	if runes := []rune(title); len(runes) > 50 {
		title = string(runes[:50])
	}
	return strings.TrimSpace(title)
}
