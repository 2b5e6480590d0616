package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/studygen/internal/domain"
)

// ParseFlashcards extracts flashcards from a model response. JSON is tried
// first; if the response is not JSON, "Q: ... A: ..." lines are accepted.
// Invalid cards are dropped. ErrInvalidResponse is returned when no valid
// card remains.
func ParseFlashcards(raw string) ([]domain.Flashcard, error) {
	body := stripCodeFence(raw)

	var cards []domain.Flashcard
	if looksLikeJSON(body) {
		var err error
		if cards, err = decodeFlashcardsJSON(body); err != nil {
			return nil, err
		}
	} else {
		cards = parseFlashcardLines(body)
	}

	valid := cards[:0]
	for _, c := range cards {
		c.Question = strings.TrimSpace(c.Question)
		c.Answer = strings.TrimSpace(c.Answer)
		if c.Validate() == nil {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no flashcards found", ErrInvalidResponse)
	}
	return valid, nil
}

// ParseQuiz extracts quiz questions from a model response. JSON is tried
// first; otherwise blank-line separated blocks of a question line, "- option"
// lines and a closing "Answer:" line are accepted. Invalid questions are
// dropped. ErrInvalidResponse is returned when none remain.
func ParseQuiz(raw string) ([]domain.QuizQuestion, error) {
	body := stripCodeFence(raw)

	var quiz []domain.QuizQuestion
	if looksLikeJSON(body) {
		var err error
		if quiz, err = decodeQuizJSON(body); err != nil {
			return nil, err
		}
	} else {
		quiz = parseQuizBlocks(body)
	}

	valid := quiz[:0]
	for _, q := range quiz {
		if q.Validate() == nil {
			valid = append(valid, q)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no quiz questions found", ErrInvalidResponse)
	}
	return valid, nil
}

type flashcardObject struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func decodeFlashcardsJSON(body string) ([]domain.Flashcard, error) {
	var items []json.RawMessage
	if strings.HasPrefix(body, "[") {
		if err := json.Unmarshal([]byte(body), &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	} else {
		var envelope struct {
			Flashcards []json.RawMessage `json:"flashcards"`
		}
		if err := json.Unmarshal([]byte(body), &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		items = envelope.Flashcards
	}

	cards := make([]domain.Flashcard, 0, len(items))
	for _, item := range items {
		// Models return either {"question","answer"} objects or [q, a] pairs.
		var obj flashcardObject
		if err := json.Unmarshal(item, &obj); err == nil {
			cards = append(cards, domain.Flashcard{Question: obj.Question, Answer: obj.Answer})
			continue
		}
		var pair domain.Flashcard
		if err := json.Unmarshal(item, &pair); err == nil {
			cards = append(cards, pair)
		}
	}
	return cards, nil
}

func decodeQuizJSON(body string) ([]domain.QuizQuestion, error) {
	var quiz []domain.QuizQuestion
	if strings.HasPrefix(body, "[") {
		if err := json.Unmarshal([]byte(body), &quiz); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		return quiz, nil
	}

	var envelope struct {
		Quiz []domain.QuizQuestion `json:"quiz"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return envelope.Quiz, nil
}

func parseFlashcardLines(body string) []domain.Flashcard {
	var cards []domain.Flashcard
	for _, line := range strings.Split(body, "\n") {
		if !strings.Contains(line, "Q:") || !strings.Contains(line, "A:") {
			continue
		}
		q, a, _ := strings.Cut(line, "A:")
		q = strings.Replace(q, "Q:", "", 1)
		cards = append(cards, domain.Flashcard{Question: strings.TrimSpace(q), Answer: strings.TrimSpace(a)})
	}
	return cards
}

func parseQuizBlocks(body string) []domain.QuizQuestion {
	var quiz []domain.QuizQuestion
	for _, block := range strings.Split(body, "\n\n") {
		if !strings.Contains(block, "?") {
			continue
		}

		var lines []string
		for _, l := range strings.Split(block, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
		if len(lines) < 2 {
			continue
		}

		q := domain.QuizQuestion{Question: lines[0]}
		optionLines := lines[1:]
		if last := lines[len(lines)-1]; strings.HasPrefix(last, "Answer:") {
			q.Answer = strings.TrimSpace(strings.TrimPrefix(last, "Answer:"))
			optionLines = lines[1 : len(lines)-1]
		}
		for _, o := range optionLines {
			q.Options = append(q.Options, strings.TrimSpace(strings.TrimLeft(o, "-* ")))
		}
		quiz = append(quiz, q)
	}
	return quiz
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func looksLikeJSON(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}
