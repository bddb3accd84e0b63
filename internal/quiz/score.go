package quiz

type QuestionResult struct {
	QuestionID          int64 `json:"question_id"`
	SelectedOptionIndex *int  `json:"selected_option_index"`
	CorrectOptionIndex  int   `json:"correct_option_index"`
	IsCorrect           bool  `json:"is_correct"`
}

type ScoreReport struct {
	Score          int              `json:"score"`
	CorrectCount   int              `json:"correct_count"`
	TotalQuestions int              `json:"total_questions"`
	Breakdown      []QuestionResult `json:"breakdown"`
}

// Evaluate scores answers against questions. A question without an answer is
// incorrect. The result depends only on its arguments.
func Evaluate(questions []Question, answers map[int64]int) ScoreReport {
	report := ScoreReport{
		TotalQuestions: len(questions),
		Breakdown:      make([]QuestionResult, 0, len(questions)),
	}
	for _, q := range questions {
		res := QuestionResult{
			QuestionID:         q.ID,
			CorrectOptionIndex: q.CorrectOptionIndex,
		}
		if opt, ok := answers[q.ID]; ok {
			selected := opt
			res.SelectedOptionIndex = &selected
			res.IsCorrect = opt == q.CorrectOptionIndex
		}
		if res.IsCorrect {
			report.CorrectCount++
		}
		report.Breakdown = append(report.Breakdown, res)
	}
	report.Score = Percent(report.CorrectCount, report.TotalQuestions)
	return report
}

// Percent returns correct/total*100 rounded half up. Zero total gives zero.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}
