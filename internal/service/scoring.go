package service

import (
	"math"
	"quiz_master_backend/internal/model"
	"strings"
)

// ScoreResult is the outcome of grading one submission.
type ScoreResult struct {
	Earned   int
	Possible int
	Percent  int
	Inputs   []model.UserInput
}

// ScoreAnswers grades answers against every question of the quiz. Each question
// yields one UserInput; a missing or blank answer is stored as nil and still counts
// towards the possible total. Matching is exact and case-sensitive.
func ScoreAnswers(questions []model.Question, answers map[uint]string) ScoreResult {
	res := ScoreResult{Inputs: make([]model.UserInput, 0, len(questions))}
	for _, q := range questions {
		input := model.UserInput{QuestionID: q.ID}
		if text, ok := answers[q.ID]; ok && strings.TrimSpace(text) != "" {
			t := text
			input.InputAnswer = &t
			if t == q.Answer {
				res.Earned += q.Weightage
			}
		}
		res.Possible += q.Weightage
		res.Inputs = append(res.Inputs, input)
	}
	res.Percent = Percent(res.Earned, res.Possible)
	return res
}

// Percent rounds earned/possible to an integer percentage. An empty quiz scores 0.
func Percent(earned, possible int) int {
	if possible <= 0 {
		return 0
	}
	p := int(math.RoundToEven(float64(earned) * 100 / float64(possible)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
