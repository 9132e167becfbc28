package service

import (
	"quiz_master_backend/internal/model"
	"testing"
)

func questionSet(weights ...int) []model.Question {
	qs := make([]model.Question, 0, len(weights))
	for i, w := range weights {
		qs = append(qs, model.Question{
			BaseModel: model.BaseModel{ID: uint(i + 1)},
			Answer:    "A",
			Weightage: w,
		})
	}
	return qs
}

func TestScoreAnswersWeighted(t *testing.T) {
	qs := questionSet(5, 3, 2)
	res := ScoreAnswers(qs, map[uint]string{1: "A", 2: "B"})

	if res.Earned != 5 || res.Possible != 10 {
		t.Fatalf("earned/possible = %d/%d, want 5/10", res.Earned, res.Possible)
	}
	if res.Percent != 50 {
		t.Fatalf("percent = %d, want 50", res.Percent)
	}
	if len(res.Inputs) != 3 {
		t.Fatalf("inputs = %d, want one per question", len(res.Inputs))
	}
	if res.Inputs[2].InputAnswer != nil {
		t.Fatalf("unanswered question stored %q, want nil", *res.Inputs[2].InputAnswer)
	}
	if got := *res.Inputs[1].InputAnswer; got != "B" {
		t.Fatalf("stored answer = %q, want B", got)
	}
}

func TestScoreAnswersBounds(t *testing.T) {
	qs := questionSet(1, 4, 10)

	all := ScoreAnswers(qs, map[uint]string{1: "A", 2: "A", 3: "A"})
	if all.Percent != 100 {
		t.Errorf("all correct = %d, want 100", all.Percent)
	}

	none := ScoreAnswers(qs, map[uint]string{1: "B", 2: "C", 3: "D"})
	if none.Percent != 0 {
		t.Errorf("none correct = %d, want 0", none.Percent)
	}

	empty := ScoreAnswers(qs, map[uint]string{})
	if empty.Percent != 0 || empty.Possible != 15 {
		t.Errorf("empty submission = %d%% of %d", empty.Percent, empty.Possible)
	}
}

func TestScoreAnswersCaseSensitive(t *testing.T) {
	res := ScoreAnswers(questionSet(2), map[uint]string{1: "a"})
	if res.Percent != 0 {
		t.Fatalf("lowercase answer scored %d, want 0", res.Percent)
	}
}

func TestScoreAnswersBlankIsUnattempted(t *testing.T) {
	res := ScoreAnswers(questionSet(2), map[uint]string{1: "   "})
	if res.Inputs[0].InputAnswer != nil {
		t.Fatalf("blank answer was recorded")
	}
}

func TestScoreAnswersEmptyQuiz(t *testing.T) {
	res := ScoreAnswers(nil, map[uint]string{})
	if res.Percent != 0 || len(res.Inputs) != 0 {
		t.Fatalf("empty quiz = %+v", res)
	}
}

func TestPercent(t *testing.T) {
	cases := []struct {
		earned, possible, want int
	}{
		{0, 0, 0},
		{5, 10, 50},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 12},
		{3, 8, 38},
		{10, 10, 100},
	}
	for _, c := range cases {
		if got := Percent(c.earned, c.possible); got != c.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", c.earned, c.possible, got, c.want)
		}
	}
}
