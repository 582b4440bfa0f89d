package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/verte-zerg/quizgem/internal/model"
)

const promptTemplate = `Génère une question de quiz à choix multiple sur le sujet "%s" avec exactement 4 options de réponse (A, B, C, D).
Fournis la question, les 4 options de réponse et indique la lettre de la réponse correcte.
Réponds uniquement au format JSON suivant sans aucun texte additionnel:
{
  "question": "La question du quiz ici",
  "options": ["Option A", "Option B", "Option C", "Option D"],
  "correctAnswer": "A"
}`

// BuildPrompt returns the generation instruction for topic.
func BuildPrompt(topic string) string {
	return fmt.Sprintf(promptTemplate, topic)
}

type questionPayload struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// ParseQuestion extracts a question from model output, tolerating code fences
// and text around the JSON object.
func ParseQuestion(text string) (model.Question, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return model.Question{}, newMalformedError("no JSON object in response", nil)
	}

	var payload questionPayload
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &payload); err != nil {
		return model.Question{}, newMalformedError("failed to parse question JSON", err)
	}
	q, err := model.NewQuestion(payload.Question, payload.Options, payload.CorrectAnswer)
	if err != nil {
		return model.Question{}, newMalformedError("question failed validation", err)
	}
	return q, nil
}
